package challenge

import (
	"strings"

	"goflare.io/ticketpal/models/enum"
)

var workerStatuses = map[string]enum.ChallengeStatus{
	"queued":     enum.ChallengeStatusPending,
	"pending":    enum.ChallengeStatusPending,
	"running":    enum.ChallengeStatusInProgress,
	"processing": enum.ChallengeStatusInProgress,
	"completed":  enum.ChallengeStatusSuccess,
	"succeeded":  enum.ChallengeStatusSuccess,
	"failed":     enum.ChallengeStatusError,
	"error":      enum.ChallengeStatusError,
}

// MapWorkerStatus translates a worker job status into a challenge status.
func MapWorkerStatus(status string) (enum.ChallengeStatus, bool) {
	s, ok := workerStatuses[strings.ToLower(strings.TrimSpace(status))]
	return s, ok
}
