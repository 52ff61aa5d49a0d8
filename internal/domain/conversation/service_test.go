package conversation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/conversation"
	"tutor-server/chat-api/internal/utils/convid"
)

// MockRepository is a func-field mock for the conversation repository.
type MockRepository struct {
	CreateFunc         func(ctx context.Context, conv *conversation.Conversation) error
	FindByPublicIDFunc func(ctx context.Context, publicID string) (*conversation.Conversation, error)
	ListByUserIDFunc   func(ctx context.Context, userID string) ([]conversation.Conversation, error)
	UpdateTitleFunc    func(ctx context.Context, publicID, title string) error
	TouchFunc          func(ctx context.Context, publicID string) error
	DeleteFunc         func(ctx context.Context, publicID string) error
}

func (m *MockRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	return m.CreateFunc(ctx, conv)
}
func (m *MockRepository) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	return m.FindByPublicIDFunc(ctx, publicID)
}
func (m *MockRepository) ListByUserID(ctx context.Context, userID string) ([]conversation.Conversation, error) {
	return m.ListByUserIDFunc(ctx, userID)
}
func (m *MockRepository) UpdateTitle(ctx context.Context, publicID, title string) error {
	return m.UpdateTitleFunc(ctx, publicID, title)
}
func (m *MockRepository) Touch(ctx context.Context, publicID string) error {
	return m.TouchFunc(ctx, publicID)
}
func (m *MockRepository) Delete(ctx context.Context, publicID string) error {
	return m.DeleteFunc(ctx, publicID)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		title     string
		wantTitle string
		wantErr   bool
	}{
		{
			name:      "explicit title",
			userID:    "u1",
			title:     "Quadratic equations",
			wantTitle: "Quadratic equations",
		},
		{
			name:      "empty title falls back to default",
			userID:    "u1",
			title:     "   ",
			wantTitle: conversation.DefaultTitle,
		},
		{
			name:      "long title is truncated",
			userID:    "u1",
			title:     strings.Repeat("x", 200),
			wantTitle: strings.Repeat("x", conversation.MaxTitleLength),
		},
		{
			name:    "missing user id",
			userID:  "",
			title:   "t",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *conversation.Conversation
			repo := &MockRepository{
				CreateFunc: func(ctx context.Context, conv *conversation.Conversation) error {
					created = conv
					return nil
				},
			}
			svc := conversation.NewService(repo, zerolog.Nop())

			conv, err := svc.Create(context.Background(), tt.userID, tt.title)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if conv.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", conv.Title, tt.wantTitle)
			}
			if !convid.IsValid(conv.PublicID) {
				t.Errorf("public id %q is not a valid conversation id", conv.PublicID)
			}
			if created == nil || created.PublicID != conv.PublicID {
				t.Error("repository did not receive the conversation")
			}
		})
	}
}

func TestRename(t *testing.T) {
	var gotTitle string
	repo := &MockRepository{
		UpdateTitleFunc: func(ctx context.Context, publicID, title string) error {
			gotTitle = title
			return nil
		},
	}
	svc := conversation.NewService(repo, zerolog.Nop())

	if err := svc.Rename(context.Background(), "not-an-id", "t"); err == nil {
		t.Error("expected error for malformed id")
	}

	id := convid.New()
	if err := svc.Rename(context.Background(), id, "  Derivatives  "); err != nil {
		t.Fatal(err)
	}
	if gotTitle != "Derivatives" {
		t.Errorf("stored title = %q", gotTitle)
	}
}

func TestDelete(t *testing.T) {
	var deleted string
	repo := &MockRepository{
		DeleteFunc: func(ctx context.Context, publicID string) error {
			deleted = publicID
			return nil
		},
	}
	svc := conversation.NewService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), "conv_???"); err == nil {
		t.Error("expected error for malformed id")
	}
	if deleted != "" {
		t.Fatal("repository delete must not run for a malformed id")
	}

	id := convid.New()
	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	if deleted != id {
		t.Errorf("deleted = %q, want %q", deleted, id)
	}
}
