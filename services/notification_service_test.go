package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skillora/skillora-api/model"
)

func TestNotificationsListAndRead(t *testing.T) {
	db := testDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	user := seedUser(t, db, "user@example.com", model.RoleStudent)
	other := seedUser(t, db, "other@example.com", model.RoleStudent)

	inputs := []NotificationInput{
		{UserID: user.ID, Type: model.NotificationTypeInfo, Category: model.NotificationCategoryGeneral, Title: "Welcome"},
		{UserID: user.ID, Type: model.NotificationTypeSuccess, Category: model.NotificationCategoryEnrollment, Title: "Enrolled"},
		{UserID: user.ID, Type: model.NotificationTypeInfo, Category: model.NotificationCategoryApplication, Title: "Applied"},
		{UserID: other.ID, Type: model.NotificationTypeInfo, Category: model.NotificationCategoryGeneral, Title: "Not yours"},
	}
	var firstID uint
	for i, input := range inputs {
		n, err := svc.Notify(ctx, input)
		if err != nil {
			t.Fatalf("Notify: %v", err)
		}
		if i == 0 {
			firstID = n.ID
		}
	}

	unread, err := svc.UnreadCount(ctx, user.ID)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if unread != 3 {
		t.Fatalf("unread = %d, want 3", unread)
	}

	notifications, total, err := svc.ListByUser(ctx, ListOptions{UserID: user.ID})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 3 || len(notifications) != 3 {
		t.Fatalf("list = %d/%d, want 3", len(notifications), total)
	}

	byCategory, total, err := svc.ListByUser(ctx, ListOptions{UserID: user.ID, Category: string(model.NotificationCategoryEnrollment)})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 1 || byCategory[0].Title != "Enrolled" {
		t.Fatalf("category filter = %+v", byCategory)
	}

	// Reading someone else's notification is a not-found, not a no-op.
	if err := svc.MarkRead(ctx, other.ID, firstID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("mark read by other user: err = %v, want ErrNotFound", err)
	}
	if err := svc.MarkRead(ctx, user.ID, firstID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	updated, err := svc.MarkAllRead(ctx, user.ID)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if updated != 2 {
		t.Fatalf("MarkAllRead updated %d, want 2", updated)
	}

	unread, err = svc.UnreadCount(ctx, user.ID)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if unread != 0 {
		t.Fatalf("unread after mark all = %d, want 0", unread)
	}

	unreadOnly, total, err := svc.ListByUser(ctx, ListOptions{UserID: user.ID, UnreadOnly: true})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 0 || len(unreadOnly) != 0 {
		t.Fatalf("unread-only list = %d/%d, want 0", len(unreadOnly), total)
	}
}

func TestNotifyWithMetadata(t *testing.T) {
	db := testDB(t)
	svc := NewNotificationService(db)

	user := seedUser(t, db, "user@example.com", model.RoleStudent)
	n, err := svc.Notify(context.Background(), NotificationInput{
		UserID:   user.ID,
		Type:     model.NotificationTypeSuccess,
		Category: model.NotificationCategoryEnrollment,
		Title:    "Enrollment confirmed",
		Metadata: map[string]interface{}{"course_id": 42},
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(n.Metadata) == 0 {
		t.Fatalf("metadata not stored")
	}
}
