package service

import (
	"context"
	"testing"

	"taxclarity/internal/apperr"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_ListForUserOnlyReturnsOwnEntries(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	profiles := NewProfileService(repos.tx, repos.profiles, repos.audit, logger.Nop())
	svc := NewAuditService(repos.audit)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	in := ProfileInput{WorkType: model.WorkTypeFreelancer, IncomeMin: int64p(0), IncomeMax: int64p(800000), Location: "Kano"}
	for i := 0; i < 3; i++ {
		_, err := profiles.Save(ctx, alice, in)
		require.NoError(t, err)
	}
	_, err := profiles.Save(ctx, bob, in)
	require.NoError(t, err)

	logs, total, err := svc.ListForUser(ctx, alice, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, model.ActionSaveTaxProfile, l.Action)
	}

	_, total, err = svc.ListForUser(ctx, alice, model.ActionToggleActionItem, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = svc.ListForUser(ctx, alice, "DROP_TABLES", 1, 20)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))

	_, _, err = svc.ListForUser(ctx, uuid.Nil, "", 1, 20)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))
}
