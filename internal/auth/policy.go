package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/interference-service/internal/domain"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

// Operation names a guarded core operation.
type Operation string

const (
	OpCreateReport     Operation = "create_report"
	OpListReports      Operation = "list_reports"
	OpGetReport        Operation = "get_report"
	OpAdvanceStatus    Operation = "advance_status"
	OpAssignTechnician Operation = "assign_technician"
	OpUnassign         Operation = "unassign_technician"
	OpUpdateNotes      Operation = "update_notes"
	OpListTechnicians  Operation = "list_technicians"
	OpCreateTechnician Operation = "create_technician"
	OpViewWorkload     Operation = "view_workload"
	OpViewActivity     Operation = "view_activity"
	OpExportDashboard  Operation = "export_dashboard"
)

var (
	anyRole     = []domain.UserRole{domain.UserRoleManager, domain.UserRoleTechnician, domain.UserRoleAdmin}
	managerRole = []domain.UserRole{domain.UserRoleManager, domain.UserRoleAdmin}
)

var policy = map[Operation][]domain.UserRole{
	OpCreateReport:     anyRole,
	OpListReports:      anyRole,
	OpGetReport:        anyRole,
	OpAdvanceStatus:    anyRole,
	OpAssignTechnician: managerRole,
	OpUnassign:         managerRole,
	OpUpdateNotes:      anyRole,
	OpListTechnicians:  anyRole,
	OpCreateTechnician: managerRole,
	OpViewWorkload:     managerRole,
	OpViewActivity:     anyRole,
	OpExportDashboard:  managerRole,
}

// Authorize decides whether session may perform op. A nil session is
// unauthenticated; a role outside the operation's allow list is forbidden.
func Authorize(session *Session, op Operation) error {
	if session == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	allowed, ok := policy[op]
	if !ok {
		return apperrors.NewForbidden(fmt.Sprintf("operation %s is not permitted", op))
	}
	for _, role := range allowed {
		if role == session.Role {
			return nil
		}
	}
	return apperrors.NewForbidden(fmt.Sprintf("role %s may not %s", session.Role, op))
}

// RequireOperation guards a route with Authorize.
func RequireOperation(op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		if err := Authorize(session, op); err != nil {
			return err
		}
		return c.Next()
	}
}
