// Package duration converts configured (value, unit) pairs into a number of
// seconds.
//
// The multipliers are fixed approximations: a month is 30 days and a year is
// 365 days. Conversion is meant to run once while the process boots; an
// unknown unit is a configuration error and callers are expected to stop the
// startup instead of serving requests with a guessed value.
package duration
