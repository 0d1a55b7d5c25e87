package enum

type TicketStatus string

const (
	// Council and TfL penalty charge notices
	TicketStatusIssuedDiscountPeriod    TicketStatus = "ISSUED_DISCOUNT_PERIOD"
	TicketStatusIssuedFullCharge        TicketStatus = "ISSUED_FULL_CHARGE"
	TicketStatusNoticeToOwner           TicketStatus = "NOTICE_TO_OWNER"
	TicketStatusFormalRepresentation    TicketStatus = "FORMAL_REPRESENTATION"
	TicketStatusNoticeOfRejection       TicketStatus = "NOTICE_OF_REJECTION"
	TicketStatusRepresentationAccepted  TicketStatus = "REPRESENTATION_ACCEPTED"
	TicketStatusAppealToTribunal        TicketStatus = "APPEAL_TO_TRIBUNAL"
	TicketStatusChargeCertificate       TicketStatus = "CHARGE_CERTIFICATE"
	TicketStatusOrderForRecovery        TicketStatus = "ORDER_FOR_RECOVERY"
	TicketStatusTecOutOfTimeApplication TicketStatus = "TEC_OUT_OF_TIME_APPLICATION"
	TicketStatusPe2Pe3Application       TicketStatus = "PE2_PE3_APPLICATION"
	TicketStatusEnforcementBailiffStage TicketStatus = "ENFORCEMENT_BAILIFF_STAGE"

	// Private parking charge notices
	TicketStatusNoticeToKeeper            TicketStatus = "NOTICE_TO_KEEPER"
	TicketStatusAppealSubmittedToOperator TicketStatus = "APPEAL_SUBMITTED_TO_OPERATOR"
	TicketStatusAppealRejectedByOperator  TicketStatus = "APPEAL_REJECTED_BY_OPERATOR"
	TicketStatusPoplaAppeal               TicketStatus = "POPLA_APPEAL"
	TicketStatusIasAppeal                 TicketStatus = "IAS_APPEAL"
	TicketStatusAppealUpheld              TicketStatus = "APPEAL_UPHELD"
	TicketStatusAppealRejected            TicketStatus = "APPEAL_REJECTED"
	TicketStatusDebtCollection            TicketStatus = "DEBT_COLLECTION"
	TicketStatusFormalLetterOfClaim       TicketStatus = "FORMAL_LETTER_OF_CLAIM"
	TicketStatusCourtProceedings          TicketStatus = "COURT_PROCEEDINGS"
	TicketStatusCcjIssued                 TicketStatus = "CCJ_ISSUED"

	// Terminal
	TicketStatusPaid      TicketStatus = "PAID"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

var ticketStatuses = map[TicketStatus]struct{}{
	TicketStatusIssuedDiscountPeriod:      {},
	TicketStatusIssuedFullCharge:          {},
	TicketStatusNoticeToOwner:             {},
	TicketStatusFormalRepresentation:      {},
	TicketStatusNoticeOfRejection:         {},
	TicketStatusRepresentationAccepted:    {},
	TicketStatusAppealToTribunal:          {},
	TicketStatusChargeCertificate:         {},
	TicketStatusOrderForRecovery:          {},
	TicketStatusTecOutOfTimeApplication:   {},
	TicketStatusPe2Pe3Application:         {},
	TicketStatusEnforcementBailiffStage:   {},
	TicketStatusNoticeToKeeper:            {},
	TicketStatusAppealSubmittedToOperator: {},
	TicketStatusAppealRejectedByOperator:  {},
	TicketStatusPoplaAppeal:               {},
	TicketStatusIasAppeal:                 {},
	TicketStatusAppealUpheld:              {},
	TicketStatusAppealRejected:            {},
	TicketStatusDebtCollection:            {},
	TicketStatusFormalLetterOfClaim:       {},
	TicketStatusCourtProceedings:          {},
	TicketStatusCcjIssued:                 {},
	TicketStatusPaid:                      {},
	TicketStatusCancelled:                 {},
}

func (s TicketStatus) Valid() bool {
	_, ok := ticketStatuses[s]
	return ok
}

// Closed reports whether nothing more is owed on the ticket.
func (s TicketStatus) Closed() bool {
	return s == TicketStatusPaid || s == TicketStatusCancelled
}
