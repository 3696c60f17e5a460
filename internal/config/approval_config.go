package config

import "time"

type ApprovalConfig interface {
	GetApprovalCodeTTL() time.Duration
	GetNotificationLogCap() int
	GetEnableLoginRateLimiting() bool
}

type Approval struct{}

var _ ApprovalConfig = Approval{}

func (Approval) GetApprovalCodeTTL() time.Duration {
	return 30 * time.Minute // one-time codes stay valid for half an hour
}

func (Approval) GetNotificationLogCap() int {
	return 50
}

func (Approval) GetEnableLoginRateLimiting() bool {
	return true
}
