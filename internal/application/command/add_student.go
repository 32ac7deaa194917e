package command

import (
	"context"
	"strings"

	"github.com/alem-hub/score-tracker/internal/application"
	"github.com/alem-hub/score-tracker/internal/domain/student"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentCommand registers a new student.
type AddStudentCommand struct {
	StudentID int    `validate:"gte=1"`
	Name      string `validate:"notblank"`
}

// AddStudentResult contains the result of adding a student.
type AddStudentResult struct {
	Student *student.Student
	Message string
	Saved   persistence.Outcome
}

// AddStudentHandler handles the AddStudentCommand.
type AddStudentHandler struct {
	session *application.Session
}

// NewAddStudentHandler creates a new AddStudentHandler.
func NewAddStudentHandler(session *application.Session) *AddStudentHandler {
	return &AddStudentHandler{session: session}
}

// Handle executes the add student command.
func (h *AddStudentHandler) Handle(ctx context.Context, cmd AddStudentCommand) (*AddStudentResult, error) {
	const op = "student.add"
	if err := validateCommand(op, cmd); err != nil {
		return nil, h.session.Finish(op, err)
	}

	s, err := h.session.Registry.Add(cmd.StudentID, strings.TrimSpace(cmd.Name), h.session.Now())
	if err != nil {
		return nil, h.session.Finish(op, err)
	}

	h.session.Logger().Info("student added", logger.StudentID(s.ID), logger.StudentName(s.Name))
	return &AddStudentResult{
		Student: s,
		Message: "Student added.",
		Saved:   h.session.SaveStudents(ctx),
	}, h.session.Finish(op, nil)
}
