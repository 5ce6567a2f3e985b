package services

import (
	"teises_draugas_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func newTestLawyerReviewService(t *testing.T) (*LawyerReviewService, *models.User, *models.Case) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "jonas@example.com", models.RoleUser)
	c := createTestCase(t, db, user.ID, models.CaseStatusDemandLetter)
	return NewLawyerReviewService(db, NewNotificationService(db, nil)), user, c
}

func TestLawyerReviewService_Request_SnapshotsLatestLetter(t *testing.T) {
	svc, user, c := newTestLawyerReviewService(t)
	older := &models.DemandLetter{CaseID: c.ID, Content: "Pirmas variantas", AITone: models.ToneFormal, ResponseDeadline: time.Now()}
	require.NoError(t, svc.DB.Create(older).Error)
	newer := &models.DemandLetter{CaseID: c.ID, Content: "Antras variantas", AITone: models.ToneFirm, ResponseDeadline: time.Now()}
	newer.CreatedAt = older.CreatedAt.Add(time.Minute)
	require.NoError(t, svc.DB.Create(newer).Error)

	review, err := svc.Request(c.ID, user.ID, RequestReviewInput{ReviewType: models.ReviewDemandLetter})
	require.NoError(t, err)

	assert.Equal(t, "Antras variantas", review.DocumentContent)
	assert.Equal(t, models.ReviewPending, review.Status)
	assert.True(t, review.Fee.Equal(models.LawyerReviewFee))
	assert.Nil(t, review.LawyerID)

	// later edits to the letter do not reach the snapshot
	require.NoError(t, svc.DB.Model(newer).Update("content", "Pakeistas").Error)
	var stored models.LawyerReview
	require.NoError(t, svc.DB.First(&stored, "id = ?", review.ID).Error)
	assert.Equal(t, "Antras variantas", stored.DocumentContent)

	var event models.TimelineEvent
	require.NoError(t, svc.DB.Where("case_id = ? AND event_type = ?", c.ID, models.EventLawyerReviewRequested).First(&event).Error)
	assert.Equal(t, "Užsakyta DEMAND_LETTER peržiūra. Kaina: 20 EUR", event.Description)
	assert.Equal(t, "amber", event.Color)

	var notification models.Notification
	require.NoError(t, svc.DB.Where("user_id = ?", user.ID).First(&notification).Error)
	assert.Equal(t, "Advokato peržiūra užsakyta", notification.Title)
}

func TestLawyerReviewService_Request_ProvidedContent(t *testing.T) {
	svc, user, c := newTestLawyerReviewService(t)

	review, err := svc.Request(c.ID, user.ID, RequestReviewInput{
		ReviewType:      models.ReviewSettlementAgreement,
		DocumentContent: "Taikos sutarties projektas",
	})
	require.NoError(t, err)
	assert.Equal(t, "Taikos sutarties projektas", review.DocumentContent)
}

func TestLawyerReviewService_Request_NothingToReview(t *testing.T) {
	svc, user, c := newTestLawyerReviewService(t)

	for _, reviewType := range []models.ReviewType{models.ReviewDemandLetter, models.ReviewCourtFiling, models.ReviewGeneralAdvice} {
		_, err := svc.Request(c.ID, user.ID, RequestReviewInput{ReviewType: reviewType})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, reviewType)
		assert.Equal(t, "No document content to review", verr.Fields["document_content"])
	}

	_, err := svc.Request(c.ID, user.ID, RequestReviewInput{ReviewType: "PROOFREADING", DocumentContent: "x"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	var count int64
	svc.DB.Model(&models.LawyerReview{}).Count(&count)
	assert.Zero(t, count)
}

func TestLawyerReviewService_Request_NotOwned(t *testing.T) {
	svc, _, c := newTestLawyerReviewService(t)
	other := createTestUser(t, svc.DB, "kitas@example.com", models.RoleUser)

	_, err := svc.Request(c.ID, other.ID, RequestReviewInput{ReviewType: models.ReviewGeneralAdvice, DocumentContent: "x"})
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestLawyerReviewService_ClaimAndComplete(t *testing.T) {
	svc, user, c := newTestLawyerReviewService(t)
	lawyer := createTestUser(t, svc.DB, "advokatas@example.com", models.RoleLawyer)
	review, err := svc.Request(c.ID, user.ID, RequestReviewInput{ReviewType: models.ReviewGeneralAdvice, DocumentContent: "Klausimas"})
	require.NoError(t, err)

	pending, err := svc.ListPending(lawyer)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, review.ID, pending[0].ID)

	claimed, err := svc.Claim(review.ID, lawyer)
	require.NoError(t, err)
	require.NotNil(t, claimed.LawyerID)
	assert.Equal(t, lawyer.ID, *claimed.LawyerID)

	completed, err := svc.Complete(review.ID, lawyer, CompleteReviewInput{
		Approved: boolPtr(false),
		Comments: "Patikslinkite sumą",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	var stored models.LawyerReview
	require.NoError(t, svc.DB.First(&stored, "id = ?", review.ID).Error)
	assert.Equal(t, models.ReviewCompleted, stored.Status)
	require.NotNil(t, stored.Approved)
	assert.False(t, *stored.Approved)
	assert.Equal(t, "Patikslinkite sumą", stored.Comments)

	var event models.TimelineEvent
	require.NoError(t, svc.DB.Where("case_id = ? AND event_type = ?", c.ID, models.EventLawyerReviewComplete).First(&event).Error)
	assert.Equal(t, "Advokatas siūlo pataisymus", event.Title)
	assert.Equal(t, "Patikslinkite sumą", event.Description)
	assert.Equal(t, "edit", event.Icon)

	var notification models.Notification
	require.NoError(t, svc.DB.Where("user_id = ? AND type = ?", user.ID, models.NotificationTypeReviewComplete).First(&notification).Error)
	assert.Equal(t, "Advokatas pateikė siūlomų pataisymų.", notification.Message)

	_, err = svc.Complete(review.ID, lawyer, CompleteReviewInput{Approved: boolPtr(true)})
	var ruleErr *BusinessRuleError
	assert.ErrorAs(t, err, &ruleErr)

	_, err = svc.Claim(review.ID, lawyer)
	assert.ErrorAs(t, err, &ruleErr)

	pending, err = svc.ListPending(lawyer)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLawyerReviewService_Complete_Approved(t *testing.T) {
	svc, user, c := newTestLawyerReviewService(t)
	admin := createTestUser(t, svc.DB, "admin@example.com", models.RoleAdmin)
	review, err := svc.Request(c.ID, user.ID, RequestReviewInput{ReviewType: models.ReviewGeneralAdvice, DocumentContent: "Klausimas"})
	require.NoError(t, err)

	_, err = svc.Complete(review.ID, admin, CompleteReviewInput{Approved: boolPtr(true)})
	require.NoError(t, err)

	var event models.TimelineEvent
	require.NoError(t, svc.DB.Where("case_id = ? AND event_type = ?", c.ID, models.EventLawyerReviewComplete).First(&event).Error)
	assert.Equal(t, "Advokatas patvirtino dokumentą", event.Title)
	assert.Equal(t, "Peržiūra baigta", event.Description)
	assert.Equal(t, "green", event.Color)

	var notification models.Notification
	require.NoError(t, svc.DB.Where("user_id = ? AND type = ?", user.ID, models.NotificationTypeReviewComplete).First(&notification).Error)
	assert.Equal(t, "Jūsų dokumentas buvo patvirtintas advokato.", notification.Message)
}

func TestLawyerReviewService_RoleChecks(t *testing.T) {
	svc, user, c := newTestLawyerReviewService(t)
	review, err := svc.Request(c.ID, user.ID, RequestReviewInput{ReviewType: models.ReviewGeneralAdvice, DocumentContent: "Klausimas"})
	require.NoError(t, err)

	_, err = svc.ListPending(user)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Claim(review.ID, user)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Complete(review.ID, user, CompleteReviewInput{Approved: boolPtr(true)})
	assert.ErrorIs(t, err, ErrForbidden)

	lawyer := createTestUser(t, svc.DB, "advokatas@example.com", models.RoleLawyer)
	_, err = svc.Complete(review.ID, lawyer, CompleteReviewInput{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	_, err = svc.Complete("missing", lawyer, CompleteReviewInput{Approved: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLawyerReviewService_ListForCase(t *testing.T) {
	svc, user, c := newTestLawyerReviewService(t)
	for i := 0; i < 2; i++ {
		_, err := svc.Request(c.ID, user.ID, RequestReviewInput{ReviewType: models.ReviewGeneralAdvice, DocumentContent: "Klausimas"})
		require.NoError(t, err)
	}

	reviews, err := svc.ListForCase(c.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	_, err = svc.ListForCase(c.ID, "someone-else")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}
