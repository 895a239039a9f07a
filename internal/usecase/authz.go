package usecase

import (
	"errors"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// ErrRoleNotAllowed indicates the actor's role slug is outside the operation's
// allow-list. Checked before any entity state is read.
var ErrRoleNotAllowed = errors.New("role is not allowed to perform this operation")

// Operation identifies a workflow-mutating operation for authorization purposes.
type Operation string

const (
	OpSubmissionApprove     Operation = "submission.approve"
	OpSubmissionReject      Operation = "submission.reject"
	OpSubmissionReview      Operation = "submission.markUnderReview"
	OpEventApply            Operation = "event.apply"
	OpEventApprove          Operation = "event.approve"
	OpEventReject           Operation = "event.reject"
	OpEventComplete         Operation = "event.complete"
	OpEventCancel           Operation = "event.cancel"
	OpReportCreate          Operation = "report.create"
	OpReportSubmit          Operation = "report.submit"
	OpReportPreApprove      Operation = "report.preApprove"
	OpReportReview          Operation = "report.review"
	OpReportApprove         Operation = "report.approve"
	OpReportFirstClearance  Operation = "report.firstClearance"
	OpReportFinalClearance  Operation = "report.finalClearance"
	OpReportUpdateFinancial Operation = "report.updateFinancials"
	OpReportAdminView       Operation = "report.adminView"
)

// adminAreaSlugs gates the submission transitions, which the route layer groups
// under the admin area rather than a per-operation list.
var adminAreaSlugs = []string{
	domain.RoleSuperAdmin,
	domain.RoleSuperAdminA,
	domain.RoleSuperAdminB,
	domain.RoleAreaAdmin,
}

// allowLists is the single source of truth for which role slugs may trigger
// each workflow operation.
var allowLists = map[Operation][]string{
	OpSubmissionApprove: adminAreaSlugs,
	OpSubmissionReject:  adminAreaSlugs,
	OpSubmissionReview:  adminAreaSlugs,

	OpEventApply:    {domain.RoleAreaAdmin, domain.RoleCommunityLead},
	OpEventApprove:  adminAreaSlugs,
	OpEventReject:   adminAreaSlugs,
	OpEventComplete: adminAreaSlugs,
	OpEventCancel:   adminAreaSlugs,

	OpReportCreate:          {domain.RoleAreaAdmin, domain.RoleCommunityLead},
	OpReportSubmit:          {domain.RoleAreaAdmin, domain.RoleCommunityLead},
	OpReportPreApprove:      {domain.RoleCommunityLead},
	OpReportReview:          {domain.RoleSuperAdmin, domain.RoleSuperAdminA},
	OpReportApprove:         {domain.RoleSuperAdmin, domain.RoleSuperAdminA},
	OpReportFirstClearance:  {domain.RoleSuperAdmin, domain.RoleSuperAdminA},
	OpReportFinalClearance:  {domain.RoleSuperAdminB},
	OpReportUpdateFinancial: {domain.RoleSuperAdmin, domain.RoleSuperAdminA},
	OpReportAdminView:       {domain.RoleSuperAdmin, domain.RoleSuperAdminA, domain.RoleSuperAdminB},
}

// AllowedSlugs returns the allow-list for an operation. Used by the route layer
// to install matching middleware so the HTTP gate and the service gate cannot drift.
func AllowedSlugs(op Operation) []string {
	slugs := allowLists[op]
	out := make([]string, len(slugs))
	copy(out, slugs)
	return out
}

// Authorize checks the actor's role slug against the operation's allow-list.
// It must run before any entity state is inspected so callers always receive
// an authorization error ahead of a state error.
func Authorize(actor domain.Actor, op Operation) error {
	slugs, ok := allowLists[op]
	if !ok {
		return ErrRoleNotAllowed
	}
	for _, slug := range slugs {
		if actor.RoleSlug == slug {
			return nil
		}
	}
	return ErrRoleNotAllowed
}
