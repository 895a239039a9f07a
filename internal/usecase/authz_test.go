package usecase

import (
	"errors"
	"testing"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

func TestAuthorizeMatrix(t *testing.T) {
	allRoles := []string{
		domain.RoleSuperAdmin,
		domain.RoleSuperAdminA,
		domain.RoleSuperAdminB,
		domain.RoleAreaAdmin,
		domain.RoleCommunityLead,
	}

	cases := []struct {
		op      Operation
		allowed []string
	}{
		{OpSubmissionApprove, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA, domain.RoleSuperAdminB, domain.RoleAreaAdmin}},
		{OpSubmissionReject, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA, domain.RoleSuperAdminB, domain.RoleAreaAdmin}},
		{OpSubmissionReview, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA, domain.RoleSuperAdminB, domain.RoleAreaAdmin}},
		{OpEventApply, []string{domain.RoleAreaAdmin, domain.RoleCommunityLead}},
		{OpEventApprove, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA, domain.RoleSuperAdminB, domain.RoleAreaAdmin}},
		{OpEventComplete, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA, domain.RoleSuperAdminB, domain.RoleAreaAdmin}},
		{OpReportCreate, []string{domain.RoleAreaAdmin, domain.RoleCommunityLead}},
		{OpReportSubmit, []string{domain.RoleAreaAdmin, domain.RoleCommunityLead}},
		{OpReportPreApprove, []string{domain.RoleCommunityLead}},
		{OpReportReview, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA}},
		{OpReportApprove, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA}},
		{OpReportFirstClearance, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA}},
		{OpReportFinalClearance, []string{domain.RoleSuperAdminB}},
		{OpReportUpdateFinancial, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA}},
		{OpReportAdminView, []string{domain.RoleSuperAdmin, domain.RoleSuperAdminA, domain.RoleSuperAdminB}},
	}

	for _, tc := range cases {
		allowedSet := make(map[string]bool, len(tc.allowed))
		for _, slug := range tc.allowed {
			allowedSet[slug] = true
		}

		for _, slug := range allRoles {
			actor := domain.Actor{ID: "u1", RoleSlug: slug}
			err := Authorize(actor, tc.op)
			if allowedSet[slug] && err != nil {
				t.Errorf("%s: %s should be allowed, got %v", tc.op, slug, err)
			}
			if !allowedSet[slug] && !errors.Is(err, ErrRoleNotAllowed) {
				t.Errorf("%s: %s should be denied, got %v", tc.op, slug, err)
			}
		}
	}
}

func TestAuthorizeUnknownOperationDenied(t *testing.T) {
	actor := domain.Actor{ID: "u1", RoleSlug: domain.RoleSuperAdmin}
	if err := Authorize(actor, Operation("submission.unknown")); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("expected ErrRoleNotAllowed for unknown operation, got %v", err)
	}
}

func TestAllowedSlugsReturnsCopy(t *testing.T) {
	slugs := AllowedSlugs(OpReportFinalClearance)
	if len(slugs) != 1 || slugs[0] != domain.RoleSuperAdminB {
		t.Fatalf("unexpected allow-list: %v", slugs)
	}

	slugs[0] = "mutated"
	if again := AllowedSlugs(OpReportFinalClearance); again[0] != domain.RoleSuperAdminB {
		t.Fatal("AllowedSlugs must not expose internal state")
	}
}
