package enum

type ChallengeStatus string

const (
	ChallengeStatusPending    ChallengeStatus = "PENDING"
	ChallengeStatusInProgress ChallengeStatus = "IN_PROGRESS"
	ChallengeStatusSuccess    ChallengeStatus = "SUCCESS"
	ChallengeStatusError      ChallengeStatus = "ERROR"
)
