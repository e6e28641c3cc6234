package domain

import (
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
)

// Materialization is one atomic step of the generator: insert the occurrence's entries,
// apply their balance deltas and move the rule's pointer, all or nothing.
type Materialization struct {
	RuleID string
	UserID string
	// ExpectedNextDate guards against a concurrent run; nil skips the check (forced occurrences).
	ExpectedNextDate *time.Time
	// NextDate is the new pointer value; nil leaves the pointer untouched.
	NextDate *time.Time
	// Deactivate marks the rule inactive in the same transaction.
	Deactivate bool
	// RequireNew turns a fully deduplicated insert into apperrors.ErrDuplicate.
	RequireNew bool
	Entries    []LedgerEntry
	Now        time.Time
}

// RuleFailure records a rule that could not be fully processed.
type RuleFailure struct {
	RuleID string `json:"ruleID"`
	Err    error  `json:"-"`
}

// GenerationResult summarizes one generation run.
// Created counts ledger entries written (both legs of a transfer count), Occurrences counts rule occurrences.
type GenerationResult struct {
	Horizon        time.Time     `json:"horizon"`
	RulesProcessed int           `json:"rulesProcessed"`
	Occurrences    int           `json:"occurrences"`
	Created        int           `json:"created"`
	Failed         []RuleFailure `json:"failed,omitempty"`
}

// Err returns a *apperrors.PartialGenerationError when any rule failed, nil otherwise.
func (r *GenerationResult) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}
	failures := make([]apperrors.ItemFailure, 0, len(r.Failed))
	for _, f := range r.Failed {
		failures = append(failures, apperrors.ItemFailure{ID: f.RuleID, Err: f.Err})
	}
	return &apperrors.PartialGenerationError{Failures: failures}
}
