package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goflare.io/ticketpal/models/enum"
)

func statuses(stages []Stage) []enum.TicketStatus {
	out := make([]enum.TicketStatus, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.Status)
	}
	return out
}

func TestStageInfo(t *testing.T) {
	stage, ok := StageInfo(enum.TicketStatusNoticeToOwner, enum.IssuerTypeCouncil)
	require.True(t, ok)
	assert.Equal(t, "Notice to Owner", stage.Label)

	stage, ok = StageInfo(enum.TicketStatusAppealToTribunal, enum.IssuerTypeTFL)
	require.True(t, ok)
	assert.Equal(t, "Appeal to London Tribunals", stage.Label)

	_, ok = StageInfo(enum.TicketStatusPoplaAppeal, enum.IssuerTypeCouncil)
	assert.False(t, ok)

	_, ok = StageInfo(enum.TicketStatusPaid, enum.IssuerType("UNKNOWN"))
	assert.False(t, ok)
}

func TestNextStages(t *testing.T) {
	got := NextStages(enum.TicketStatusAppealRejectedByOperator, enum.IssuerTypePrivateCompany)
	assert.Equal(t, []enum.TicketStatus{
		enum.TicketStatusPoplaAppeal,
		enum.TicketStatusIasAppeal,
		enum.TicketStatusPaid,
	}, statuses(got))

	assert.Empty(t, NextStages(enum.TicketStatusPaid, enum.IssuerTypeCouncil))
	assert.Empty(t, NextStages(enum.TicketStatusCcjIssued, enum.IssuerTypeCouncil))
}

func TestNextStagesDropsUnknownEntries(t *testing.T) {
	stages := []Stage{
		{Status: enum.TicketStatusIssuedDiscountPeriod, Next: []enum.TicketStatus{enum.TicketStatusNoticeToOwner, enum.TicketStatusPaid}},
		{Status: enum.TicketStatusPaid},
	}

	got := nextStages(stages, enum.TicketStatusIssuedDiscountPeriod)
	assert.Equal(t, []enum.TicketStatus{enum.TicketStatusPaid}, statuses(got))
}

func TestEveryNextEntryResolves(t *testing.T) {
	for issuer, stages := range timelines {
		for _, stage := range stages {
			for _, s := range stage.Next {
				_, ok := StageInfo(s, issuer)
				assert.Truef(t, ok, "%s: %s lists %s which has no stage", issuer, stage.Status, s)
			}
		}
	}
}

func TestStagesReturnsCopy(t *testing.T) {
	stages := Stages(enum.IssuerTypeCouncil)
	require.NotEmpty(t, stages)
	stages[0].Label = "changed"

	stage, _ := StageInfo(stages[0].Status, enum.IssuerTypeCouncil)
	assert.NotEqual(t, "changed", stage.Label)

	assert.Nil(t, Stages(enum.IssuerType("UNKNOWN")))
}
