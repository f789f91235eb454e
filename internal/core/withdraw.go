package core

// WithdrawalPlan describes where a withdrawal sends value and how the new
// transaction is labelled.
type WithdrawalPlan struct {
	Destination Category
	Description string
}

// PlanWithdrawal maps a source category to its destination category and
// description template. Expense transactions cannot be withdrawn from.
func PlanWithdrawal(source Category, description string) (WithdrawalPlan, error) {
	switch source {
	case Investment:
		return WithdrawalPlan{Destination: Savings, Description: "Withdrawal from Investment: " + description}, nil
	case Savings:
		return WithdrawalPlan{Destination: Expense, Description: "Spent from Savings: " + description}, nil
	case Income:
		return WithdrawalPlan{Destination: Savings, Description: "Moved from Income: " + description}, nil
	case Extra:
		return WithdrawalPlan{Destination: Savings, Description: "Moved from Extra: " + description}, nil
	default:
		return WithdrawalPlan{}, ErrUnsupportedWithdrawal
	}
}
