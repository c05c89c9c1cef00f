// Package seed loads the initial records the service boots with.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
)

//go:embed seed.yaml
var embedded []byte

// Data is the decoded seed.
type Data struct {
	Events       []models.CalendarEvent
	Research     []*models.Research
	Publications []*models.Publication
	HKI          []*models.HKI
	Activities   []models.Activity
}

type document struct {
	Events       []eventRow       `yaml:"events"`
	Research     []researchRow    `yaml:"research"`
	Publications []publicationRow `yaml:"publications"`
	HKI          []hkiRow         `yaml:"hki"`
	Activities   []activityRow    `yaml:"activities"`
}

type eventRow struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	StartDate   string `yaml:"startDate"`
	EndDate     string `yaml:"endDate"`
	Category    string `yaml:"category"`
}

type researchRow struct {
	models.Research `yaml:",inline"`
	Proposal        string `yaml:"proposal"`
	Progress        string `yaml:"progress"`
	Final           string `yaml:"final"`
}

type publicationRow struct {
	models.Publication `yaml:",inline"`
	Manuscript         string `yaml:"manuscript"`
}

type hkiRow struct {
	ID               string   `yaml:"id"`
	Title            string   `yaml:"title"`
	Type             string   `yaml:"jenisCiptaan"`
	ApplicationNo    string   `yaml:"nomorPermohonan"`
	AnnouncedPlace   string   `yaml:"tempatDiumumkan"`
	AnnouncedOn      string   `yaml:"tanggalDiumumkan"`
	RegistrationNo   string   `yaml:"nomorPencatatan"`
	Creators         []string `yaml:"pencipta"`
	Holders          []string `yaml:"pemegang"`
	DocumentFileName string   `yaml:"document"`
}

type activityRow struct {
	ID          string `yaml:"id"`
	User        string `yaml:"user"`
	Faculty     string `yaml:"faculty"`
	Department  string `yaml:"department"`
	Type        string `yaml:"activityType"`
	Entity      string `yaml:"entity"`
	EntityID    string `yaml:"entityId"`
	Description string `yaml:"description"`
	Timestamp   string `yaml:"timestamp"`
}

// Load decodes the seed at path, or the embedded seed when path is empty.
func Load(path string) (*Data, error) {
	raw := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes a YAML seed document.
func Parse(raw []byte) (*Data, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	// seeded rows get a fixed timestamp so listings are stable across restarts
	seededAt := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	data := &Data{}

	for i, row := range doc.Events {
		start, err := civildate.Parse(row.StartDate)
		if err != nil {
			return nil, fmt.Errorf("events[%d].startDate: %w", i, err)
		}
		event := models.CalendarEvent{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			StartDate:   start,
			Category:    models.EventCategory(row.Category),
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		}
		if row.EndDate != "" {
			end, err := civildate.Parse(row.EndDate)
			if err != nil {
				return nil, fmt.Errorf("events[%d].endDate: %w", i, err)
			}
			event.EndDate = &end
		}
		data.Events = append(data.Events, event)
	}

	for _, row := range doc.Research {
		item := row.Research
		item.Proposal = fileOnly(row.Proposal)
		item.Progress = fileOnly(row.Progress)
		item.Final = fileOnly(row.Final)
		item.CreatedAt, item.UpdatedAt = seededAt, seededAt
		data.Research = append(data.Research, &item)
	}

	for _, row := range doc.Publications {
		item := row.Publication
		item.Manuscript = fileOnly(row.Manuscript)
		item.CreatedAt, item.UpdatedAt = seededAt, seededAt
		data.Publications = append(data.Publications, &item)
	}

	for i, row := range doc.HKI {
		item := &models.HKI{
			ID:             row.ID,
			Title:          row.Title,
			Type:           models.HKIType(row.Type),
			ApplicationNo:  row.ApplicationNo,
			AnnouncedPlace: row.AnnouncedPlace,
			RegistrationNo: row.RegistrationNo,
			Creators:       row.Creators,
			Holders:        row.Holders,
			Document:       fileOnly(row.DocumentFileName),
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		}
		if row.AnnouncedOn != "" {
			announced, err := civildate.Parse(row.AnnouncedOn)
			if err != nil {
				return nil, fmt.Errorf("hki[%d].tanggalDiumumkan: %w", i, err)
			}
			item.AnnouncedOn = announced
		}
		data.HKI = append(data.HKI, item)
	}

	for i, row := range doc.Activities {
		at, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("activities[%d].timestamp: %w", i, err)
		}
		data.Activities = append(data.Activities, models.Activity{
			ID:          row.ID,
			User:        row.User,
			Faculty:     row.Faculty,
			Department:  row.Department,
			Type:        models.ActivityType(row.Type),
			Entity:      row.Entity,
			EntityID:    row.EntityID,
			Description: row.Description,
			CreatedAt:   at,
		})
	}

	return data, nil
}

func fileOnly(name string) *models.Artifact {
	if name == "" {
		return nil
	}
	return &models.Artifact{FileName: name}
}
