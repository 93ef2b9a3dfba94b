package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"spearow/internal/audit"
	"spearow/internal/notify"
	reportModel "spearow/internal/report/models"
	"spearow/internal/report/render"
	userModel "spearow/internal/user/models"
	userService "spearow/internal/user/service"
	userStore "spearow/internal/user/store"
	pkgerrors "spearow/pkg/errors"
	"spearow/pkg/requestcontext"
)

// fakeReportService returns a canned user report for any identity.
type fakeReportService struct {
	identities []string
	fail       error
}

func (f *fakeReportService) Generate(_ context.Context, identity string, _ reportModel.ReportRequest) (any, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.identities = append(f.identities, identity)
	return &reportModel.UserReport{
		Name:              "Jane Doe",
		Email:             identity,
		ReportGeneratedAt: "2026-08-31",
		Report:            reportModel.NoBreachesMessage,
	}, nil
}

type AdminServiceSuite struct {
	suite.Suite

	users    userStore.Store
	reports  *fakeReportService
	notifier *notify.Recorder
	audit    *audit.InMemoryStore
	svc      *Service

	jane *userModel.User
}

func (s *AdminServiceSuite) SetupTest() {
	s.users = userStore.NewMemoryStore()
	s.reports = &fakeReportService{}
	s.notifier = &notify.Recorder{}
	s.audit = audit.NewInMemoryStore()

	s.jane = &userModel.User{Name: "Jane Doe", Email: "jane@example.com"}
	s.Require().NoError(s.users.Create(context.Background(), s.jane))

	s.svc = NewService(
		userService.NewService(s.users),
		s.reports,
		WithNotifier(s.notifier),
		WithAudit(audit.NewStorePublisher(s.audit)),
	)
}

func (s *AdminServiceSuite) Test_ListUsers() {
	s.Require().NoError(s.users.Create(context.Background(), &userModel.User{
		Name:     "Admin",
		Email:    "admin@example.com",
		UserType: userModel.UserTypeAdmin,
		Verified: true,
	}))

	summaries, err := s.svc.ListUsers(context.Background())
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal("jane@example.com", summaries[0].Email)
	s.False(summaries[0].Admin)
	s.Equal(s.jane.ID.String(), summaries[0].ID)
	s.True(summaries[1].Admin)
}

func (s *AdminServiceSuite) Test_GenerateUserReport_CSV() {
	out, contentType, err := s.svc.GenerateUserReport(context.Background(), s.jane.ID, reportModel.FormatCSV)
	s.Require().NoError(err)
	s.Equal(render.ContentTypeCSV, contentType)
	s.Contains(string(out), "jane@example.com")
	s.Equal([]string{"jane@example.com"}, s.reports.identities,
		"report is resolved for the target identity, not the admin")
}

func (s *AdminServiceSuite) Test_GenerateUserReport_PDF() {
	out, contentType, err := s.svc.GenerateUserReport(context.Background(), s.jane.ID, reportModel.FormatPDF)
	s.Require().NoError(err)
	s.Equal(render.ContentTypePDF, contentType)
	s.True(strings.HasPrefix(string(out), "%PDF"))
}

func (s *AdminServiceSuite) Test_GenerateUserReport_RejectsJSON() {
	_, _, err := s.svc.GenerateUserReport(context.Background(), s.jane.ID, reportModel.FormatJSON)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	s.Contains(err.Error(), "report format must be csv or pdf")
	s.Empty(s.reports.identities)
	s.Empty(s.notifier.Emails)
}

func (s *AdminServiceSuite) Test_GenerateUserReport_UnknownUser() {
	_, _, err := s.svc.GenerateUserReport(context.Background(), uuid.New(), reportModel.FormatCSV)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func (s *AdminServiceSuite) Test_GenerateUserReport_NotifiesTarget() {
	_, _, err := s.svc.GenerateUserReport(context.Background(), s.jane.ID, reportModel.FormatCSV)
	s.Require().NoError(err)
	s.Equal([]string{"jane@example.com"}, s.notifier.Emails)
}

func (s *AdminServiceSuite) Test_GenerateUserReport_NoNotifyOnFailure() {
	s.reports.fail = pkgerrors.New(pkgerrors.CodeUpstream, "breach data provider unavailable")

	_, _, err := s.svc.GenerateUserReport(context.Background(), s.jane.ID, reportModel.FormatCSV)
	s.Require().Error(err)
	s.Empty(s.notifier.Emails)
}

func (s *AdminServiceSuite) Test_SetAdminStatus_EmitsAudit() {
	ctx := requestcontext.WithCallerEmail(context.Background(), "admin@example.com")

	s.Require().NoError(s.svc.SetAdminStatus(ctx, s.jane.ID, true))

	stored, err := s.users.GetByID(ctx, s.jane.ID)
	s.Require().NoError(err)
	s.Equal(userModel.UserTypeAdmin, stored.UserType)

	events, err := s.audit.ListBySubject(ctx, s.jane.ID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionAdminStatusChanged, events[0].Action)
	s.Equal("changed by admin@example.com", events[0].Detail)
}

func (s *AdminServiceSuite) Test_SetVerifyStatus_EmitsAudit() {
	ctx := requestcontext.WithCallerEmail(context.Background(), "admin@example.com")

	s.Require().NoError(s.svc.SetVerifyStatus(ctx, s.jane.ID, true))

	stored, err := s.users.GetByID(ctx, s.jane.ID)
	s.Require().NoError(err)
	s.True(stored.Verified)

	events, err := s.audit.ListBySubject(ctx, s.jane.ID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionVerifyStatusChanged, events[0].Action)
}

func (s *AdminServiceSuite) Test_SetAdminStatus_UnknownUser() {
	err := s.svc.SetAdminStatus(context.Background(), uuid.New(), true)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	events, err := s.audit.ListBySubject(context.Background(), s.jane.ID.String())
	s.Require().NoError(err)
	s.Empty(events)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}
