package enum

type IssuerType string

const (
	IssuerTypeCouncil        IssuerType = "COUNCIL"
	IssuerTypeTFL            IssuerType = "TFL"
	IssuerTypePrivateCompany IssuerType = "PRIVATE_COMPANY"
)

func (t IssuerType) Valid() bool {
	switch t {
	case IssuerTypeCouncil, IssuerTypeTFL, IssuerTypePrivateCompany:
		return true
	}
	return false
}
