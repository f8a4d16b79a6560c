package ebook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CreateTrimsAndReturnsStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	now := time.Now()
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *Ebook) error {
		assert.Equal(t, "Calculus", e.Title)
		assert.Equal(t, "Math", e.Genre)
		e.ID = "new-id"
		e.CreatedAt = &now
		return nil
	})

	got, err := service.Create(context.Background(), Submission{
		Title:      "  Calculus ",
		Genre:      " Math",
		CoverURL:   "https://img.example/c.jpg",
		ContentURL: "https://files.example/c.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", got.ID)
	assert.Equal(t, &now, got.CreatedAt)
}

func TestService_CreateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	storeErr := errors.New("write failed")
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(storeErr)

	_, err := service.Create(context.Background(), Submission{Title: "T", CoverURL: "c", ContentURL: "p"})
	assert.ErrorIs(t, err, storeErr)
}

func TestService_DeletePassesNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	mockRepo.EXPECT().Delete(gomock.Any(), "gone").Return(ErrNotFound)

	assert.ErrorIs(t, service.Delete(context.Background(), "gone"), ErrNotFound)
}
