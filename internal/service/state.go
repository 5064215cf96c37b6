package service

import (
	"github.com/hance08/teller/internal/model"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle of the latest request of one kind.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// KindState tracks one operation kind. Rejection holds the last validation
// message and Err the last transport failure; Seq identifies the latest
// accepted request of this kind.
type KindState struct {
	Status    Status
	Rejection string
	Err       error
	Seq       uint64
}

// ShowSuccess reports whether the success marker should be rendered. A new
// rejection hides an earlier success without erasing it.
func (k KindState) ShowSuccess() bool {
	return k.Status == StatusSuccess && k.Rejection == ""
}

// SessionState is the whole client-side state of one dashboard session.
type SessionState struct {
	Account              model.Account
	DailyWithdrawalTotal decimal.Decimal
	Deposit              KindState
	Withdraw             KindState

	// appliedSeq is the sequence of the request whose response produced
	// Account; older responses never overwrite it.
	appliedSeq uint64
}

func newSessionState(account model.Account) SessionState {
	return SessionState{Account: account, DailyWithdrawalTotal: decimal.Zero}
}

func (s SessionState) Kind(kind model.Kind) KindState {
	if kind == model.KindWithdraw {
		return s.Withdraw
	}
	return s.Deposit
}

func (s SessionState) withKind(kind model.Kind, ks KindState) SessionState {
	if kind == model.KindWithdraw {
		s.Withdraw = ks
	} else {
		s.Deposit = ks
	}
	return s
}

func reject(s SessionState, kind model.Kind, reason string) SessionState {
	ks := s.Kind(kind)
	ks.Rejection = reason
	return s.withKind(kind, ks)
}

// beginAttempt moves kind to pending and, for withdrawals, reserves amount
// against the daily total before the backend answers.
func beginAttempt(s SessionState, kind model.Kind, amount decimal.Decimal, seq uint64) SessionState {
	s = s.withKind(kind, KindState{Status: StatusPending, Seq: seq})
	if kind == model.KindWithdraw {
		s.DailyWithdrawalTotal = s.DailyWithdrawalTotal.Add(amount)
	}
	return s
}

func settleSuccess(s SessionState, kind model.Kind, seq uint64, account model.Account) SessionState {
	if seq > s.appliedSeq {
		s.Account = account
		s.appliedSeq = seq
	}

	ks := s.Kind(kind)
	if ks.Seq == seq {
		ks.Status = StatusSuccess
		ks.Err = nil
		s = s.withKind(kind, ks)
	}
	return s
}

func settleFailure(s SessionState, kind model.Kind, seq uint64, amount decimal.Decimal, err error, release bool) SessionState {
	if release && kind == model.KindWithdraw {
		s.DailyWithdrawalTotal = s.DailyWithdrawalTotal.Sub(amount)
	}

	ks := s.Kind(kind)
	if ks.Seq == seq {
		ks.Status = StatusFailed
		ks.Err = err
		s = s.withKind(kind, ks)
	}
	return s
}

// replaceAccount installs a freshly loaded snapshot, e.g. after a refresh.
func replaceAccount(s SessionState, account model.Account, seq uint64) SessionState {
	s.Account = account
	s.appliedSeq = seq
	return s
}
