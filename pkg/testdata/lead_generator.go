package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// LeadGeneratorConfig configures lead generation parameters
type LeadGeneratorConfig struct {
	Count         int
	BrokerIDs     []string // pool of user ids leads are assigned to
	MinBudget     float64
	MaxBudget     float64
	EmailChance   float64 // 0.0-1.0 (probability of having email)
	NotesChance   float64
	FollowChance  float64 // probability of a pending next action
	StatusWeights map[string]int
}

// DefaultLeadGeneratorConfig returns a config that yields a realistic
// funnel shape: most leads at the top, a few closed.
func DefaultLeadGeneratorConfig(count int, brokerIDs []string) LeadGeneratorConfig {
	return LeadGeneratorConfig{
		Count:        count,
		BrokerIDs:    brokerIDs,
		MinBudget:    1_500_000,
		MaxBudget:    12_000_000,
		EmailChance:  0.85,
		NotesChance:  0.6,
		FollowChance: 0.7,
		StatusWeights: map[string]int{
			models.LeadStatusNew:          30,
			models.LeadStatusContacted:    25,
			models.LeadStatusQualified:    18,
			models.LeadStatusPresentation: 10,
			models.LeadStatusBooked:       7,
			models.LeadStatusSold:         5,
			models.LeadStatusLost:         5,
		},
	}
}

var leadSources = []string{"Manual", "GHL", "Facebook Ads", "Instagram", "Referido", "Sitio Web", "WhatsApp"}

var propertyInterests = []string{
	"Departamento", "Casa", "Penthouse", "Terreno", "Preventa",
	"Vista al mar", "Amenidades", "Pet friendly", "Lock-off", "ROI",
}

var nextActions = []string{
	"Llamar para seguimiento",
	"Enviar brochure por WhatsApp",
	"Agendar visita al showroom",
	"Confirmar cita de presentación",
	"Enviar corrida financiera",
	"Proponer segunda visita",
}

func pickStatus(weights map[string]int) string {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return models.LeadStatusNew
	}
	n := rand.Intn(total)
	for status, w := range weights {
		if n < w {
			return status
		}
		n -= w
	}
	return models.LeadStatusNew
}

func pickPriority(status string) string {
	switch status {
	case models.LeadStatusPresentation, models.LeadStatusBooked:
		return models.PriorityHigh
	case models.LeadStatusNew, models.LeadStatusLost:
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}

// GenerateLead creates a single lead with realistic data
func GenerateLead(config LeadGeneratorConfig) models.Lead {
	status := pickStatus(config.StatusWeights)
	name := gofakeit.Name()

	lead := models.Lead{
		Name:     name,
		Phone:    fmt.Sprintf("+52 998 %03d %04d", rand.Intn(1000), rand.Intn(10000)),
		Source:   leadSources[rand.Intn(len(leadSources))],
		Status:   status,
		Priority: pickPriority(status),
		Budget:   config.MinBudget + rand.Float64()*(config.MaxBudget-config.MinBudget),
	}

	if len(config.BrokerIDs) > 0 {
		lead.AssignedTo = config.BrokerIDs[rand.Intn(len(config.BrokerIDs))]
	}

	if rand.Float64() < config.EmailChance {
		local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
		local = strings.ReplaceAll(local, "'", "")
		lead.Email = fmt.Sprintf("%s@%s", local, gofakeit.DomainName())
	}

	count := 1 + rand.Intn(3)
	for i := 0; i < count; i++ {
		lead.Interests = append(lead.Interests, propertyInterests[rand.Intn(len(propertyInterests))])
	}

	if rand.Float64() < config.NotesChance {
		lead.Notes = gofakeit.Sentence(8 + rand.Intn(8))
	}

	if status != models.LeadStatusSold && status != models.LeadStatusLost && rand.Float64() < config.FollowChance {
		lead.NextAction = nextActions[rand.Intn(len(nextActions))]
		due := time.Now().AddDate(0, 0, rand.Intn(7))
		lead.NextActionDate = &due
	}

	return lead
}

// GenerateLeads persists Count generated leads into the store
func GenerateLeads(ctx context.Context, st *store.Store, config LeadGeneratorConfig) ([]models.Lead, error) {
	leads := make([]models.Lead, 0, config.Count)
	for i := 0; i < config.Count; i++ {
		created, err := st.CreateLead(ctx, GenerateLead(config))
		if err != nil {
			return leads, fmt.Errorf("generating lead %d: %w", i+1, err)
		}
		leads = append(leads, *created)
	}
	return leads, nil
}
