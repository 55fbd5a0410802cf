package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) (*usecase.RequestOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// both need authenticated
	r.POST("/api/v1/otp/request/:email", end.RequestOTP)
	r.POST("/api/v1/otp/verify/:otp", end.VerifyOTP)
}
