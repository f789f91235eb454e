package core

import (
	"errors"
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		ID:          "tx-1",
		OwnerID:     "user-1",
		FolderID:    "folder-1",
		Category:    Income,
		Amount:      Money{Cents: 100_000},
		Description: "Salary",
		Date:        time.Now(),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []func(*Transaction){
		func(tx *Transaction) { tx.FolderID = "" },
		func(tx *Transaction) { tx.FolderID = "   " },
		func(tx *Transaction) { tx.Category = "" },
		func(tx *Transaction) { tx.Category = "stocks" },
		func(tx *Transaction) { tx.Description = "" },
		func(tx *Transaction) { tx.Amount = Money{Cents: 0} },
		func(tx *Transaction) { tx.Amount = Money{Cents: -100} },
	}
	for i, mutate := range bads {
		tx := validTransaction()
		mutate(&tx)
		err := tx.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{Income, Expense, Investment, Savings, Extra} {
		if !c.Valid() {
			t.Fatalf("%s should be valid", c)
		}
	}
	for _, c := range []Category{"", "INCOME", "stocks"} {
		if c.Valid() {
			t.Fatalf("%q should be invalid", c)
		}
	}
}

func TestPlanWithdrawal(t *testing.T) {
	cases := []struct {
		source      Category
		destination Category
		description string
	}{
		{Investment, Savings, "Withdrawal from Investment: Tesla shares"},
		{Savings, Expense, "Spent from Savings: Tesla shares"},
		{Income, Savings, "Moved from Income: Tesla shares"},
		{Extra, Savings, "Moved from Extra: Tesla shares"},
	}
	for _, tc := range cases {
		plan, err := PlanWithdrawal(tc.source, "Tesla shares")
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.source, err)
		}
		if plan.Destination != tc.destination {
			t.Fatalf("%s: destination = %s, want %s", tc.source, plan.Destination, tc.destination)
		}
		if plan.Description != tc.description {
			t.Fatalf("%s: description = %q, want %q", tc.source, plan.Description, tc.description)
		}
	}

	if _, err := PlanWithdrawal(Expense, "Rent"); !errors.Is(err, ErrUnsupportedWithdrawal) {
		t.Fatalf("expected ErrUnsupportedWithdrawal, got %v", err)
	}
}
