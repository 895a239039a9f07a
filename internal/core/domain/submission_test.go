package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTierForCount(t *testing.T) {
	cases := []struct {
		count int
		want  Tier
	}{
		{0, TierBronze},
		{4, TierBronze},
		{5, TierSilver},
		{9, TierSilver},
		{10, TierGold},
		{14, TierGold},
		{15, TierPlatinum},
		{40, TierPlatinum},
	}

	for _, tc := range cases {
		if got := TierForCount(tc.count); got != tc.want {
			t.Errorf("TierForCount(%d) = %s, want %s", tc.count, got, tc.want)
		}
	}
}

func TestSubmissionApproveStampsApprover(t *testing.T) {
	now := time.Now().UTC()
	reason := "incomplete"
	s := BarangaySubmission{Status: SubmissionPending, RejectionReason: &reason}

	s.Approve("admin-1", nil, now)

	if s.Status != SubmissionApproved {
		t.Fatalf("status = %s, want APPROVED", s.Status)
	}
	if s.ApprovedByID == nil || *s.ApprovedByID != "admin-1" {
		t.Errorf("approver not stamped")
	}
	if s.RejectionReason != nil {
		t.Errorf("rejection reason should be cleared on approval")
	}
}

func TestSubmissionRejectRequiresReason(t *testing.T) {
	s := BarangaySubmission{Status: SubmissionPending}

	if err := s.Reject("admin-1", "", nil, time.Now().UTC()); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
	if s.Status != SubmissionPending {
		t.Errorf("status must not change on failed rejection")
	}

	if err := s.Reject("admin-1", "missing MOA page", nil, time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != SubmissionRejected {
		t.Errorf("status = %s, want REJECTED", s.Status)
	}
	if s.RejectionReason == nil || *s.RejectionReason != "missing MOA page" {
		t.Errorf("rejection reason not recorded")
	}
}

func TestSubmissionMarkMoaExpired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	t.Run("approved with past expiry moves to RENEW", func(t *testing.T) {
		s := BarangaySubmission{Status: SubmissionApproved, MoaExpiryDate: &past}
		if err := s.MarkMoaExpired(now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !s.IsMoaExpired {
			t.Errorf("IsMoaExpired not set")
		}
		if s.Status != SubmissionRenew {
			t.Errorf("status = %s, want RENEW", s.Status)
		}
	})

	t.Run("future expiry does not qualify", func(t *testing.T) {
		s := BarangaySubmission{Status: SubmissionApproved, MoaExpiryDate: &future}
		if err := s.MarkMoaExpired(now); !errors.Is(err, ErrMoaNotExpirable) {
			t.Fatalf("expected ErrMoaNotExpirable, got %v", err)
		}
	})

	t.Run("pending submission does not qualify", func(t *testing.T) {
		s := BarangaySubmission{Status: SubmissionPending, MoaExpiryDate: &past}
		if err := s.MarkMoaExpired(now); !errors.Is(err, ErrMoaNotExpirable) {
			t.Fatalf("expected ErrMoaNotExpirable, got %v", err)
		}
	})

	t.Run("second expiry is rejected", func(t *testing.T) {
		s := BarangaySubmission{Status: SubmissionApproved, MoaExpiryDate: &past}
		if err := s.MarkMoaExpired(now); err != nil {
			t.Fatalf("first expiry: %v", err)
		}
		if err := s.MarkMoaExpired(now); !errors.Is(err, ErrMoaNotExpirable) {
			t.Fatalf("expected ErrMoaNotExpirable on re-run, got %v", err)
		}
	})

	t.Run("missing expiry date does not qualify", func(t *testing.T) {
		s := BarangaySubmission{Status: SubmissionApproved}
		if err := s.MarkMoaExpired(now); !errors.Is(err, ErrMoaNotExpirable) {
			t.Fatalf("expected ErrMoaNotExpirable, got %v", err)
		}
	})
}

func TestSubmissionIncrementSuccessfulEventsAdvancesTier(t *testing.T) {
	s := BarangaySubmission{Status: SubmissionApproved, Tier: TierBronze, SuccessfulEventsCount: 4}

	s.IncrementSuccessfulEvents(time.Now().UTC())

	if s.SuccessfulEventsCount != 5 {
		t.Fatalf("count = %d, want 5", s.SuccessfulEventsCount)
	}
	if s.Tier != TierSilver {
		t.Errorf("tier = %s, want SILVER", s.Tier)
	}
}
