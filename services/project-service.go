package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gurkanusta/WorkNest/logging"
	"github.com/gurkanusta/WorkNest/models"
	"github.com/gurkanusta/WorkNest/repositories"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *models.ProjectMember) error
	Find(ctx context.Context, projectID, userID primitive.ObjectID) (models.ProjectMember, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ProjectMember, error)
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error)
}

type EmailSender interface {
	Send(to, subject, body string) error
}

type ProjectService struct {
	projects    ProjectRepository
	members     MemberRepository
	users       UserRepository
	mailer      EmailSender
	mailBreaker *gobreaker.CircuitBreaker
}

// NewProjectService wires the project service. mailer and mailBreaker may
// be nil, in which case invite notifications are skipped.
func NewProjectService(projects ProjectRepository, members MemberRepository, users UserRepository, mailer EmailSender, mailBreaker *gobreaker.CircuitBreaker) *ProjectService {
	return &ProjectService{
		projects:    projects,
		members:     members,
		users:       users,
		mailer:      mailer,
		mailBreaker: mailBreaker,
	}
}

// CreateProject creates the project and makes the caller its first member
// with the Owner role.
func (s *ProjectService) CreateProject(ctx context.Context, name string, ownerID primitive.ObjectID) (models.Project, error) {
	project := models.Project{
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.projects.Create(ctx, &project); err != nil {
		return models.Project{}, err
	}

	owner := models.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.RoleOwner,
		JoinedAt:  project.CreatedAt,
	}
	if err := s.members.Create(ctx, &owner); err != nil {
		return models.Project{}, fmt.Errorf("failed to add owner membership: %w", err)
	}
	return project, nil
}

// ListProjectsForUser returns the caller's projects with their role in
// each, newest first.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.ProjectSummary, error) {
	memberships, err := s.members.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(memberships))
	roleByProject := make(map[primitive.ObjectID]models.Role, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.ProjectID)
		roleByProject[m.ProjectID] = m.Role
	}

	projects, err := s.projects.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, models.ProjectSummary{
			ID:        p.ID,
			Name:      p.Name,
			Role:      roleByProject[p.ID],
			CreatedAt: p.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ID.Hex() < summaries[j].ID.Hex()
	})
	return summaries, nil
}

// GetProject returns a project to one of its members. Membership is
// checked first: a non-member gets ErrForbidden even when the project
// does not exist, so that existence is never leaked.
func (s *ProjectService) GetProject(ctx context.Context, projectID, userID primitive.ObjectID) (models.Project, error) {
	isMember, err := s.IsMember(ctx, projectID, userID)
	if err != nil {
		return models.Project{}, err
	}
	if !isMember {
		return models.Project{}, ErrForbidden
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Project{}, ErrNotFound
		}
		return models.Project{}, err
	}
	return project, nil
}

// ListMembers returns the member rows of a project enriched with each
// user's email. Caller must be a member.
func (s *ProjectService) ListMembers(ctx context.Context, projectID, userID primitive.ObjectID) ([]models.MemberInfo, error) {
	isMember, err := s.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	members, err := s.members.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	infos := make([]models.MemberInfo, 0, len(members))
	for _, m := range members {
		info := models.MemberInfo{
			ID:       m.ID,
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if user, err := s.users.FindByID(ctx, m.UserID); err == nil {
			info.Email = user.Email
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// IsMember reports whether a membership row exists for the pair. It gates
// every project-scoped operation.
func (s *ProjectService) IsMember(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	_, err := s.members.Find(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RoleOf returns the caller's role in the project, or
// repositories.ErrNotFound when no membership exists.
func (s *ProjectService) RoleOf(ctx context.Context, projectID, userID primitive.ObjectID) (models.Role, error) {
	member, err := s.members.Find(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// InviteMember adds the user with the given email to the project with the
// Member role. Checks run cheapest first: caller role, then the identity
// lookup, then existing membership. A duplicate-key rejection from the
// unique (projectId, userId) index is reported as ErrAlreadyMember, never
// as a server failure.
func (s *ProjectService) InviteMember(ctx context.Context, projectID, callerID primitive.ObjectID, email string) (models.ProjectMember, error) {
	role, err := s.RoleOf(ctx, projectID, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ProjectMember{}, ErrOwnerOnly
		}
		return models.ProjectMember{}, err
	}
	if role != models.RoleOwner {
		return models.ProjectMember{}, ErrOwnerOnly
	}

	target, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ProjectMember{}, ErrUserNotFound
		}
		return models.ProjectMember{}, err
	}

	if _, err := s.members.Find(ctx, projectID, target.ID); err == nil {
		return models.ProjectMember{}, ErrAlreadyMember
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.ProjectMember{}, err
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    target.ID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.members.Create(ctx, &member); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return models.ProjectMember{}, ErrAlreadyMember
		}
		return models.ProjectMember{}, err
	}

	s.notifyInvite(ctx, projectID, target.Email)
	return member, nil
}

// notifyInvite sends a best-effort notification email through the circuit
// breaker. Failures are logged and never fail the invite.
func (s *ProjectService) notifyInvite(ctx context.Context, projectID primitive.ObjectID, email string) {
	if s.mailer == nil || s.mailBreaker == nil {
		return
	}

	projectName := projectID.Hex()
	if project, err := s.projects.FindByID(ctx, projectID); err == nil {
		projectName = project.Name
	}

	subject := "You have been added to a project"
	body := fmt.Sprintf("You are now a member of the project %q.", projectName)
	_, err := s.mailBreaker.Execute(func() (interface{}, error) {
		return nil, s.mailer.Send(email, subject, body)
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: INVITE_EMAIL_FAILED, Description: Failed to send invite notification to %s: %v", email, err)
	}
}
