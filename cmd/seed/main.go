package main

import (
	"context"
	"log"
	"time"

	"sms-assistant-be/internal/config"
	"sms-assistant-be/internal/constant"
	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/pkg/database"

	"github.com/google/uuid"
)

// Seeds one workspace with an admin, a handful of members, and starter
// resources so a fresh install can answer questions immediately.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	workspaceId, err := uuid.Parse(cfg.Workspace.Id)
	if err != nil {
		log.Fatalf("Error: Invalid WORKSPACE_ID %q: %v", cfg.Workspace.Id, err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	members := []*entity.Member{
		{Phone: "+15550001111", Name: "Dana Admin", Role: constant.RoleAdmin},
		{Phone: "+15550002222", Name: "Pat Parent", Role: constant.RoleParent},
		{Phone: "+15550003333", Name: "Quinn Parent", Role: constant.RoleParent},
		{Phone: "+15550004444", Name: "Val Volunteer", Role: constant.RoleVolunteer},
	}
	for _, m := range members {
		existing, err := uow.MemberRepository().FindByPhone(ctx, workspaceId, m.Phone)
		if err != nil {
			log.Fatalf("Error: member lookup failed: %v", err)
		}
		if existing != nil {
			log.Printf("Skip member %s (exists)", m.Phone)
			continue
		}
		m.Id = uuid.New()
		m.WorkspaceId = workspaceId
		m.CreatedAt = time.Now()
		if err := uow.MemberRepository().Create(ctx, m); err != nil {
			log.Fatalf("Error: failed to create member %s: %v", m.Phone, err)
		}
		log.Printf("Created member %s (%s)", m.Name, m.Role)
	}

	resources := []*entity.Resource{
		{
			Title:     "Practice schedule",
			Content:   "Regular practice runs Tuesdays and Thursdays 5pm to 7pm at Riverside Field. Arrive 15 minutes early for warmup.",
			Source:    "official",
			Authority: 0.2,
		},
		{
			Title:     "Season fees",
			Content:   "Season registration is $120 per player, due by the end of the first month. Sibling discount is 20 percent.",
			Source:    "admin",
			Authority: 0.1,
		},
		{
			Title:     "Volunteer contact list",
			Content:   "Snack coordinator: Val (+15550004444). Carpool board is pinned in the team app.",
			Source:    "admin",
			Authority: 0.1,
			IsEnclave: true,
		},
	}
	for _, r := range resources {
		r.Id = uuid.New()
		r.WorkspaceId = workspaceId
		r.CreatedAt = time.Now()
		if err := uow.ResourceRepository().Create(ctx, r); err != nil {
			log.Fatalf("Error: failed to create resource %q: %v", r.Title, err)
		}
		log.Printf("Created resource %q", r.Title)
	}

	log.Println("✅ Success: Seed completed. Run the embed consumer (cmd/rest) to index resources.")
}
