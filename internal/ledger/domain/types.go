package domain

// TxType is the kind of a ledger record.
type TxType string

const (
	Deposit     TxType = "deposit"
	Withdrawal  TxType = "withdrawal"
	TransferOut TxType = "transfer_out"
	TransferIn  TxType = "transfer_in"
)

func (t TxType) IsValid() bool {
	switch t {
	case Deposit, Withdrawal, TransferOut, TransferIn:
		return true
	}
	return false
}

// IsCredit reports whether the type adds money to the account.
func (t TxType) IsCredit() bool {
	return t == Deposit || t == TransferIn
}
