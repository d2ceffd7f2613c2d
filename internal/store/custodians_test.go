package store

import (
	"context"
	"testing"

	"stagehand/internal/db"
)

func TestCreateAndListContacts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	contact, err := CreateContact(ctx, database, "Ana Novak", "ana@example.com", "+386 40 123 456")
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if contact.Email != "ana@example.com" {
		t.Errorf("expected email to round-trip, got %q", contact.Email)
	}

	CreateContact(ctx, database, "Bojan Kovač", "", "")

	contacts, err := ListContacts(ctx, database)
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(contacts) != 2 {
		t.Errorf("expected 2 contacts, got %d", len(contacts))
	}
}

func TestCreateContactRequiresName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateContact(ctx, database, "", "", ""); err == nil {
		t.Error("expected error for empty contact name")
	}
}

func TestDeleteContactOnOpenWorkOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	contact, _ := CreateContact(ctx, database, "Busy Contact", "", "")
	_, err := CreateWorkOrder(ctx, database, WorkOrderParams{
		Title:              "Shoot",
		CustodianContactID: &contact.ID,
	})
	if err != nil {
		t.Fatalf("CreateWorkOrder: %v", err)
	}

	if err := DeleteContact(ctx, database, contact.ID); err == nil {
		t.Error("expected delete to be refused while a work order is open")
	}
}

func TestProjectCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	project, err := CreateProject(ctx, database, "Summer Tour", "ST-26")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	updated, err := UpdateProject(ctx, database, project.ID, "Summer Tour 2026", "ST-26")
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Name != "Summer Tour 2026" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}

	if err := DeleteProject(ctx, database, project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	projects, _ := ListProjects(ctx, database)
	if len(projects) != 0 {
		t.Errorf("expected 0 projects after delete, got %d", len(projects))
	}
}
