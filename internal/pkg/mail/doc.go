// Package mail sends email messages.
//
// Callers depend on the Mail interface and the provider-agnostic Message; SMTP
// is the only delivery mechanism implemented here.
package mail
