package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE STUDENT COMMAND
// Removing a student drops its scores with it. Activity records that refer to
// the student stay in the log; undoing them reports the student as missing.
// ══════════════════════════════════════════════════════════════════════════════

// RemoveStudentCommand removes a student by id.
type RemoveStudentCommand struct {
	StudentID int `validate:"gte=1"`
}

// RemoveStudentResult contains the result of removing a student.
type RemoveStudentResult struct {
	Message string
	Saved   persistence.Outcome
}

// RemoveStudentHandler handles the RemoveStudentCommand.
type RemoveStudentHandler struct {
	session *application.Session
}

// NewRemoveStudentHandler creates a new RemoveStudentHandler.
func NewRemoveStudentHandler(session *application.Session) *RemoveStudentHandler {
	return &RemoveStudentHandler{session: session}
}

// Handle executes the remove student command.
func (h *RemoveStudentHandler) Handle(ctx context.Context, cmd RemoveStudentCommand) (*RemoveStudentResult, error) {
	const op = "student.remove"
	if err := validateCommand(op, cmd); err != nil {
		return nil, h.session.Finish(op, err)
	}

	if !h.session.Registry.Remove(cmd.StudentID) {
		return nil, h.session.Finish(op, shared.ErrStudentNotFound)
	}

	h.session.Logger().Info("student removed", logger.StudentID(cmd.StudentID))
	return &RemoveStudentResult{
		Message: fmt.Sprintf("Removed student with ID %d.", cmd.StudentID),
		Saved:   h.session.SaveStudents(ctx),
	}, h.session.Finish(op, nil)
}
