// Package timeline holds the display metadata for each issuer's ticket lifecycle.
//
// The tables describe which statuses usually follow one another. They are not a
// state machine: a ticket may be moved to any status regardless of what is listed
// here, and nothing in the service consults these tables before a status write.
package timeline

import (
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

type Stage = models.Stage

func next(statuses ...enum.TicketStatus) []enum.TicketStatus {
	return statuses
}

var terminalStages = []Stage{
	{
		Status:  enum.TicketStatusPaid,
		Label:   "Paid",
		Trigger: "Payment made to the issuer",
	},
	{
		Status:  enum.TicketStatusCancelled,
		Label:   "Cancelled",
		Trigger: "Issuer or adjudicator cancelled the ticket",
	},
}

var councilStages = append([]Stage{
	{
		Status:  enum.TicketStatusIssuedDiscountPeriod,
		Label:   "PCN issued (discount period)",
		Trigger: "Penalty charge notice attached to the vehicle or served by post",
		Next:    next(enum.TicketStatusIssuedFullCharge, enum.TicketStatusPaid, enum.TicketStatusCancelled),
	},
	{
		Status:  enum.TicketStatusIssuedFullCharge,
		Label:   "Full charge due",
		Trigger: "14 days passed without payment",
		Next:    next(enum.TicketStatusNoticeToOwner, enum.TicketStatusPaid, enum.TicketStatusCancelled),
	},
	{
		Status:  enum.TicketStatusNoticeToOwner,
		Label:   "Notice to Owner",
		Trigger: "28 days passed without payment",
		Next:    next(enum.TicketStatusFormalRepresentation, enum.TicketStatusChargeCertificate, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusFormalRepresentation,
		Label:   "Formal representation made",
		Trigger: "Representation sent to the council",
		Next:    next(enum.TicketStatusRepresentationAccepted, enum.TicketStatusNoticeOfRejection),
	},
	{
		Status:  enum.TicketStatusRepresentationAccepted,
		Label:   "Representation accepted",
		Trigger: "Council accepted the representation",
		Next:    next(enum.TicketStatusCancelled),
	},
	{
		Status:  enum.TicketStatusNoticeOfRejection,
		Label:   "Notice of Rejection",
		Trigger: "Council rejected the representation",
		Next:    next(enum.TicketStatusAppealToTribunal, enum.TicketStatusChargeCertificate, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusAppealToTribunal,
		Label:   "Appeal to the Traffic Penalty Tribunal",
		Trigger: "Appeal lodged within 28 days of the Notice of Rejection",
		Next:    next(enum.TicketStatusCancelled, enum.TicketStatusPaid, enum.TicketStatusChargeCertificate),
	},
	{
		Status:  enum.TicketStatusChargeCertificate,
		Label:   "Charge Certificate",
		Trigger: "No payment or representation within 28 days of the Notice to Owner",
		Next:    next(enum.TicketStatusOrderForRecovery, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusOrderForRecovery,
		Label:   "Order for Recovery",
		Trigger: "Debt registered at the Traffic Enforcement Centre",
		Next: next(
			enum.TicketStatusTecOutOfTimeApplication,
			enum.TicketStatusPe2Pe3Application,
			enum.TicketStatusEnforcementBailiffStage,
			enum.TicketStatusPaid,
		),
	},
	{
		Status:  enum.TicketStatusTecOutOfTimeApplication,
		Label:   "Out of time application (TE7)",
		Trigger: "Application made to file a late statutory declaration",
		Next:    next(enum.TicketStatusCancelled, enum.TicketStatusEnforcementBailiffStage),
	},
	{
		Status:  enum.TicketStatusPe2Pe3Application,
		Label:   "Statutory declaration (PE2/PE3)",
		Trigger: "Statutory declaration or witness statement filed",
		Next:    next(enum.TicketStatusCancelled, enum.TicketStatusEnforcementBailiffStage),
	},
	{
		Status:  enum.TicketStatusEnforcementBailiffStage,
		Label:   "Enforcement agents instructed",
		Trigger: "Warrant of control issued",
		Next:    next(enum.TicketStatusPaid),
	},
}, terminalStages...)

var tflStages = append([]Stage{
	{
		Status:  enum.TicketStatusIssuedDiscountPeriod,
		Label:   "TfL PCN issued (discount period)",
		Trigger: "Penalty charge notice issued by Transport for London",
		Next:    next(enum.TicketStatusIssuedFullCharge, enum.TicketStatusFormalRepresentation, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusIssuedFullCharge,
		Label:   "Full charge due",
		Trigger: "14 days passed without payment",
		Next:    next(enum.TicketStatusNoticeToOwner, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusNoticeToOwner,
		Label:   "Notice to Owner",
		Trigger: "28 days passed without payment",
		Next:    next(enum.TicketStatusFormalRepresentation, enum.TicketStatusChargeCertificate, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusFormalRepresentation,
		Label:   "Representation to TfL",
		Trigger: "Representation submitted to TfL",
		Next:    next(enum.TicketStatusRepresentationAccepted, enum.TicketStatusNoticeOfRejection),
	},
	{
		Status:  enum.TicketStatusRepresentationAccepted,
		Label:   "Representation accepted",
		Trigger: "TfL accepted the representation",
		Next:    next(enum.TicketStatusCancelled),
	},
	{
		Status:  enum.TicketStatusNoticeOfRejection,
		Label:   "Notice of Rejection",
		Trigger: "TfL rejected the representation",
		Next:    next(enum.TicketStatusAppealToTribunal, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusAppealToTribunal,
		Label:   "Appeal to London Tribunals",
		Trigger: "Appeal lodged with London Tribunals",
		Next:    next(enum.TicketStatusCancelled, enum.TicketStatusPaid, enum.TicketStatusChargeCertificate),
	},
	{
		Status:  enum.TicketStatusChargeCertificate,
		Label:   "Charge Certificate",
		Trigger: "No payment or representation after the Notice to Owner",
		Next:    next(enum.TicketStatusOrderForRecovery, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusOrderForRecovery,
		Label:   "Order for Recovery",
		Trigger: "Debt registered at the Traffic Enforcement Centre",
		Next:    next(enum.TicketStatusPe2Pe3Application, enum.TicketStatusEnforcementBailiffStage, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusPe2Pe3Application,
		Label:   "Statutory declaration (PE2/PE3)",
		Trigger: "Statutory declaration or witness statement filed",
		Next:    next(enum.TicketStatusCancelled, enum.TicketStatusEnforcementBailiffStage),
	},
	{
		Status:  enum.TicketStatusEnforcementBailiffStage,
		Label:   "Enforcement agents instructed",
		Trigger: "Warrant of control issued",
		Next:    next(enum.TicketStatusPaid),
	},
}, terminalStages...)

var privateStages = append([]Stage{
	{
		Status:  enum.TicketStatusIssuedDiscountPeriod,
		Label:   "Parking charge notice issued",
		Trigger: "Notice left on the vehicle or captured by ANPR",
		Next:    next(enum.TicketStatusNoticeToKeeper, enum.TicketStatusAppealSubmittedToOperator, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusNoticeToKeeper,
		Label:   "Notice to Keeper",
		Trigger: "Operator obtained keeper details from the DVLA",
		Next:    next(enum.TicketStatusAppealSubmittedToOperator, enum.TicketStatusDebtCollection, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusAppealSubmittedToOperator,
		Label:   "Appeal submitted to operator",
		Trigger: "Appeal sent to the parking operator",
		Next:    next(enum.TicketStatusAppealUpheld, enum.TicketStatusAppealRejectedByOperator),
	},
	{
		Status:  enum.TicketStatusAppealRejectedByOperator,
		Label:   "Appeal rejected by operator",
		Trigger: "Operator rejected the appeal and issued a POPLA or IAS code",
		Next:    next(enum.TicketStatusPoplaAppeal, enum.TicketStatusIasAppeal, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusPoplaAppeal,
		Label:   "POPLA appeal",
		Trigger: "Independent appeal lodged with POPLA",
		Next:    next(enum.TicketStatusAppealUpheld, enum.TicketStatusAppealRejected),
	},
	{
		Status:  enum.TicketStatusIasAppeal,
		Label:   "IAS appeal",
		Trigger: "Independent appeal lodged with the IAS",
		Next:    next(enum.TicketStatusAppealUpheld, enum.TicketStatusAppealRejected),
	},
	{
		Status:  enum.TicketStatusAppealUpheld,
		Label:   "Appeal upheld",
		Trigger: "Appeal decided in the driver's favour",
		Next:    next(enum.TicketStatusCancelled),
	},
	{
		Status:  enum.TicketStatusAppealRejected,
		Label:   "Appeal rejected",
		Trigger: "Independent appeal decided against the driver",
		Next:    next(enum.TicketStatusDebtCollection, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusDebtCollection,
		Label:   "Debt collection",
		Trigger: "Operator passed the charge to a debt collector",
		Next:    next(enum.TicketStatusFormalLetterOfClaim, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusFormalLetterOfClaim,
		Label:   "Letter of claim",
		Trigger: "Formal letter before action received",
		Next:    next(enum.TicketStatusCourtProceedings, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusCourtProceedings,
		Label:   "County court claim",
		Trigger: "Claim issued at the county court",
		Next:    next(enum.TicketStatusCcjIssued, enum.TicketStatusCancelled, enum.TicketStatusPaid),
	},
	{
		Status:  enum.TicketStatusCcjIssued,
		Label:   "County court judgment",
		Trigger: "Judgment entered against the keeper",
		Next:    next(enum.TicketStatusPaid),
	},
}, terminalStages...)

var timelines = map[enum.IssuerType][]Stage{
	enum.IssuerTypeCouncil:        councilStages,
	enum.IssuerTypeTFL:            tflStages,
	enum.IssuerTypePrivateCompany: privateStages,
}

// Stages returns a copy of the timeline for issuer, or nil if the issuer is unknown.
func Stages(issuer enum.IssuerType) []Stage {
	stages, ok := timelines[issuer]
	if !ok {
		return nil
	}
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// StageInfo finds the stage for status in issuer's timeline.
func StageInfo(status enum.TicketStatus, issuer enum.IssuerType) (Stage, bool) {
	return stageInfo(timelines[issuer], status)
}

// NextStages lists the stages that usually follow status. Entries in Next that
// have no stage of their own are dropped.
func NextStages(status enum.TicketStatus, issuer enum.IssuerType) []Stage {
	return nextStages(timelines[issuer], status)
}

func stageInfo(stages []Stage, status enum.TicketStatus) (Stage, bool) {
	for _, stage := range stages {
		if stage.Status == status {
			return stage, true
		}
	}
	return Stage{}, false
}

func nextStages(stages []Stage, status enum.TicketStatus) []Stage {
	current, ok := stageInfo(stages, status)
	if !ok {
		return []Stage{}
	}

	out := make([]Stage, 0, len(current.Next))
	for _, s := range current.Next {
		if stage, ok := stageInfo(stages, s); ok {
			out = append(out, stage)
		}
	}
	return out
}
