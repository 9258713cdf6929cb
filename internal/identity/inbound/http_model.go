package inbound

import "time"

type IssueOTPRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

type IssueOTPDebug struct {
	OTP       string    `json:"otp"`
	ExpiresAt time.Time `json:"expires_at"`
}

type IssueOTPResponse struct {
	Success bool           `json:"success"`
	Email   string         `json:"email"`
	Debug   *IssueOTPDebug `json:"debug,omitempty"`
}

func (r IssueOTPResponse) Message() string {
	return "OTP sent to " + r.Email
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

type UserResponse struct {
	ID    int64  `json:"id,string"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type VerifyOTPResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

func (VerifyOTPResponse) Message() string {
	return "Signed in successfully"
}

type ProfileResponse struct {
	User UserResponse `json:"user"`
}
