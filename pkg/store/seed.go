package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jordanlanch/brokerhub/pkg/models"
)

// Seed populates the demo dataset. Each collection is seeded only if
// its key does not exist yet, so restarts never clobber live data.
func (s *Store) Seed(ctx context.Context, demoPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed hashing demo password: %w", err)
	}

	seeders := []struct {
		collection string
		seed       func(context.Context) error
	}{
		{ColUsers, func(ctx context.Context) error { return write(ctx, s, ColUsers, demoUsers(string(hash))) }},
		{ColLeads, func(ctx context.Context) error { return write(ctx, s, ColLeads, demoLeads()) }},
		{ColMeetings, func(ctx context.Context) error { return write(ctx, s, ColMeetings, demoMeetings()) }},
		{ColCalls, func(ctx context.Context) error { return write(ctx, s, ColCalls, demoCalls()) }},
		{ColScripts, func(ctx context.Context) error { return write(ctx, s, ColScripts, demoScripts()) }},
		{ColActivities, func(ctx context.Context) error { return write(ctx, s, ColActivities, demoActivities()) }},
		{ColPoints, func(ctx context.Context) error { return write(ctx, s, ColPoints, demoPoints()) }},
	}

	for _, sd := range seeders {
		exists, err := s.cache.Exists(ctx, s.key(sd.collection))
		if err != nil {
			return fmt.Errorf("failed checking collection %s: %w", sd.collection, err)
		}
		if exists {
			continue
		}
		if err := sd.seed(ctx); err != nil {
			return err
		}
		s.logger.Info("🌱 Seeded demo collection", "collection", sd.collection)
	}

	return nil
}

func demoUsers(passwordHash string) []models.User {
	brokerPerms := []string{"leads:read", "leads:write", "meetings:read", "meetings:write"}

	return []models.User{
		{
			ID:           "1",
			Name:         "Mafer",
			Email:        "mafer@real_estate.com",
			Role:         models.RoleBroker,
			Avatar:       "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&fit=crop",
			Permissions:  brokerPerms,
			IsActive:     true,
			PasswordHash: passwordHash,
		},
		{
			ID:           "2",
			Name:         "Mariano",
			Email:        "mariano@real_estate.com",
			Role:         models.RoleBroker,
			Avatar:       "https://images.pexels.com/photos/1222271/pexels-photo-1222271.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&fit=crop",
			Permissions:  brokerPerms,
			IsActive:     true,
			PasswordHash: passwordHash,
		},
		{
			ID:           "3",
			Name:         "Pablo",
			Email:        "pablo@real_estate.com",
			Role:         models.RoleBroker,
			Avatar:       "https://images.pexels.com/photos/1681010/pexels-photo-1681010.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&fit=crop",
			Permissions:  brokerPerms,
			IsActive:     true,
			PasswordHash: passwordHash,
		},
		{
			ID:           "4",
			Name:         "Jaquelite",
			Email:        "jaquelite@real_estate.com",
			Role:         models.RoleBroker,
			Avatar:       "https://images.pexels.com/photos/1239291/pexels-photo-1239291.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&fit=crop",
			Permissions:  brokerPerms,
			IsActive:     true,
			PasswordHash: passwordHash,
		},
		{
			ID:           "5",
			Name:         "Raquel",
			Email:        "raquel@real_estate.com",
			Role:         models.RoleBroker,
			Avatar:       "https://images.pexels.com/photos/1130626/pexels-photo-1130626.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&fit=crop",
			Permissions:  brokerPerms,
			IsActive:     true,
			PasswordHash: passwordHash,
		},
		{
			ID:           "6",
			Name:         "Admin",
			Email:        "admin@real_estate.com",
			Role:         models.RoleAdmin,
			Avatar:       "https://images.pexels.com/photos/1043471/pexels-photo-1043471.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&fit=crop",
			Permissions:  []string{"*"},
			IsActive:     true,
			PasswordHash: passwordHash,
		},
	}
}

func demoLeads() []models.Lead {
	now := time.Now()
	in := func(d time.Duration) *time.Time { t := now.Add(d); return &t }

	return []models.Lead{
		{
			ID:             "1",
			Name:           "Carlos Hernández",
			Email:          "carlos.hernandez@email.com",
			Phone:          "+52 998 123 4567",
			Source:         "Facebook Ads",
			Status:         models.LeadStatusQualified,
			Priority:       models.PriorityHigh,
			AssignedTo:     "1",
			CreatedAt:      now.Add(-48 * time.Hour),
			UpdatedAt:      now.Add(-time.Hour),
			NextAction:     "Presentación Zoom programada",
			NextActionDate: in(24 * time.Hour),
			Budget:         2500000,
			Interests:      []string{"Penthouse", "Vista al mar", "Inversión"},
			Notes:          "Cliente muy interesado, busca inversión a largo plazo",
			AIAnalysis: &models.LeadAIAnalysis{
				Sentiment:         "positive",
				BuyingIntent:      85,
				KeyPoints:         []string{"Presupuesto confirmado", "Timeline definido", "Decisor principal"},
				RecommendedScript: "discovery-qualified",
				NextBestAction:    "Agendar presentación presencial",
			},
		},
		{
			ID:             "2",
			Name:           "María González",
			Email:          "maria.gonzalez@email.com",
			Phone:          "+52 998 765 4321",
			Source:         "Google Ads",
			Status:         models.LeadStatusPresentation,
			Priority:       models.PriorityMedium,
			AssignedTo:     "2",
			CreatedAt:      now.Add(-72 * time.Hour),
			UpdatedAt:      now.Add(-2 * time.Hour),
			NextAction:     "Seguimiento post-presentación",
			NextActionDate: in(12 * time.Hour),
			Budget:         1800000,
			Interests:      []string{"Departamento", "2 recámaras", "Amenidades"},
			Notes:          "Ya vio la presentación, evaluando opciones",
			AIAnalysis: &models.LeadAIAnalysis{
				Sentiment:         "neutral",
				BuyingIntent:      65,
				KeyPoints:         []string{"Comparando opciones", "Necesita más información financiera"},
				RecommendedScript: "objection-handling",
				NextBestAction:    "Enviar propuesta personalizada",
			},
		},
		{
			ID:             "3",
			Name:           "Roberto Silva",
			Email:          "roberto.silva@email.com",
			Phone:          "+52 998 555 1234",
			Source:         "Referido",
			Status:         models.LeadStatusNew,
			Priority:       models.PriorityHigh,
			AssignedTo:     "3",
			CreatedAt:      now.Add(-time.Hour),
			UpdatedAt:      now.Add(-30 * time.Minute),
			NextAction:     "Primera llamada de contacto",
			NextActionDate: in(time.Hour),
			Budget:         3200000,
			Interests:      []string{"Penthouse", "Inversión", "Renta vacacional"},
			Notes:          "Referido por cliente existente, alta probabilidad de cierre",
			AIAnalysis: &models.LeadAIAnalysis{
				Sentiment:         "positive",
				BuyingIntent:      90,
				KeyPoints:         []string{"Referido de cliente satisfecho", "Presupuesto alto", "Experiencia en inversiones"},
				RecommendedScript: "discovery-referral",
				NextBestAction:    "Llamada inmediata para agendar cita",
			},
		},
		{
			ID:             "4",
			Name:           "Ana Martínez",
			Email:          "ana.martinez@email.com",
			Phone:          "+52 998 777 8888",
			Source:         "Instagram",
			Status:         models.LeadStatusContacted,
			Priority:       models.PriorityMedium,
			AssignedTo:     "4",
			CreatedAt:      now.Add(-24 * time.Hour),
			UpdatedAt:      now.Add(-time.Hour),
			NextAction:     "Seguimiento por WhatsApp",
			NextActionDate: in(2 * time.Hour),
			Budget:         2000000,
			Interests:      []string{"Departamento", "Inversión"},
			Notes:          "Contactada por Instagram, mostró interés inicial",
			AIAnalysis: &models.LeadAIAnalysis{
				Sentiment:         "neutral",
				BuyingIntent:      60,
				KeyPoints:         []string{"Primera interacción", "Necesita más información"},
				RecommendedScript: "discovery-basic",
				NextBestAction:    "Enviar información por WhatsApp",
			},
		},
		{
			ID:             "5",
			Name:           "Luis Rodríguez",
			Email:          "luis.rodriguez@email.com",
			Phone:          "+52 998 444 5555",
			Source:         "Website",
			Status:         models.LeadStatusBooked,
			Priority:       models.PriorityHigh,
			AssignedTo:     "5",
			CreatedAt:      now.Add(-120 * time.Hour),
			UpdatedAt:      now.Add(-24 * time.Hour),
			NextAction:     "Proceso de cierre",
			NextActionDate: in(48 * time.Hour),
			Budget:         4500000,
			Interests:      []string{"Penthouse", "Lujo", "Vista al mar"},
			Notes:          "Cliente premium, apartó penthouse de lujo",
			AIAnalysis: &models.LeadAIAnalysis{
				Sentiment:         "positive",
				BuyingIntent:      100,
				KeyPoints:         []string{"Apartado confirmado", "Pago de enganche listo", "Inversionista experimentado"},
				RecommendedScript: "post-booking",
				NextBestAction:    "Proceso de cierre y documentación",
			},
		},
	}
}

func demoMeetings() []models.Meeting {
	now := time.Now()

	return []models.Meeting{
		{
			ID:           "1",
			Title:        "Presentación Zoom - Carlos Hernández",
			Date:         now.Add(24 * time.Hour),
			Duration:     60,
			Type:         models.MeetingTypeZoom,
			Status:       models.MeetingStatusScheduled,
			Attendees:    []string{"Carlos Hernández", "Mafer"},
			Notes:        "Cliente muy interesado en penthouse",
			LeadID:       "1",
			GHLEventID:   "ghl_event_123",
			ZoomLink:     "https://zoom.us/j/123456789",
			ReminderSent: false,
			Location:     "Zoom Meeting",
		},
		{
			ID:           "2",
			Title:        "Seguimiento - María González",
			Date:         now.Add(12 * time.Hour),
			Duration:     30,
			Type:         models.MeetingTypePhone,
			Status:       models.MeetingStatusScheduled,
			Attendees:    []string{"María González", "Mariano"},
			Notes:        "Seguimiento post-presentación",
			LeadID:       "2",
			GHLEventID:   "ghl_event_124",
			ReminderSent: true,
			Location:     "Llamada telefónica",
		},
		{
			ID:           "3",
			Title:        "Visita Presencial - Luis Rodríguez",
			Date:         now.Add(-24 * time.Hour),
			Duration:     90,
			Type:         models.MeetingTypePhysical,
			Status:       models.MeetingStatusCompleted,
			Attendees:    []string{"Luis Rodríguez", "Raquel"},
			Notes:        "Visita exitosa, cliente apartó penthouse",
			Outcome:      "Apartado confirmado",
			LeadID:       "5",
			GHLEventID:   "ghl_event_125",
			ReminderSent: true,
			Location:     "Oficina de Ventas - Tulum",
		},
	}
}

func demoCalls() []models.Call {
	now := time.Now()
	at := func(d time.Duration) *time.Time { t := now.Add(d); return &t }

	return []models.Call{
		{
			ID:         "1",
			LeadID:     "1",
			Type:       models.CallTypeManual,
			Status:     models.CallStatusCompleted,
			StartTime:  at(-24 * time.Hour),
			EndTime:    at(-24*time.Hour + 20*time.Minute),
			Duration:   1200,
			Outcome:    models.CallOutcomeQualified,
			Notes:      "Excelente llamada, cliente muy interesado",
			AssignedTo: "1",
			AIAnalysis: &models.CallAIAnalysis{
				Sentiment:     "positive",
				KeyTopics:     []string{"Presupuesto confirmado", "Timeline definido", "Interés en penthouse"},
				NextAction:    "Agendar presentación",
				Transcription: "Cliente muy interesado en invertir en Tulum...",
			},
		},
		{
			ID:         "2",
			LeadID:     "4",
			Type:       models.CallTypeVAPI,
			Status:     models.CallStatusCompleted,
			StartTime:  at(-2 * time.Hour),
			EndTime:    at(-2*time.Hour + 8*time.Minute),
			Duration:   480,
			Outcome:    models.CallOutcomeInterested,
			Notes:      "Llamada VAPI exitosa, lead calificado",
			AssignedTo: "vapi-bot",
			VAPICallID: "vapi_call_456",
			AIAnalysis: &models.CallAIAnalysis{
				Sentiment:     "neutral",
				KeyTopics:     []string{"Interés inicial", "Necesita más información", "Presupuesto 2M"},
				NextAction:    "Seguimiento humano",
				Transcription: "Lead muestra interés inicial en departamentos...",
			},
		},
	}
}

func demoScripts() []models.SalesScript {
	now := time.Now()

	return []models.SalesScript{
		{
			ID:   "1",
			Name: "Script de Descubrimiento - Tulum",
			Type: models.ScriptTypeDiscovery,
			Content: `Hola [NOMBRE_CLIENTE], habla [NOMBRE_AGENTE] de Real Estate CRM.

Te contacto porque veo que has mostrado interés en nuestros desarrollos en Tulum. ¿Tienes unos minutos para platicar?

Para poder ayudarte de la mejor manera, me gustaría conocerte un poco mejor:

1. ¿Qué te motivó a buscar una propiedad en Tulum?
2. ¿Estás buscando para uso personal, inversión, o ambos?
3. ¿Has visitado Tulum antes?
4. ¿Cuál es tu timeline para tomar una decisión?
5. ¿Has considerado el rango de inversión que tienes en mente?

Basado en lo que me comentas, creo que tenemos opciones perfectas para ti...`,
			Variables:     []string{"NOMBRE_CLIENTE", "NOMBRE_AGENTE"},
			IsActive:      true,
			CreatedAt:     now.Add(-30 * 24 * time.Hour),
			UpdatedAt:     now.Add(-5 * 24 * time.Hour),
			Usage:         45,
			Effectiveness: 87,
		},
		{
			ID:   "2",
			Name: "Presentación Penthouse Collection",
			Type: models.ScriptTypePresentation,
			Content: `Gracias por tu tiempo [NOMBRE_CLIENTE]. Me da mucho gusto presentarte nuestra Penthouse Collection.

Lo que hace únicos a nuestros penthouses:

🏝️ **Ubicación Privilegiada**
- Frente a la playa más hermosa de Tulum
- A 5 minutos de la zona arqueológica
- Acceso directo a cenotes privados

🏢 **Características Exclusivas**
- Terrazas privadas de [TAMAÑO_TERRAZA] m²
- Jacuzzi privado con vista al mar
- Cocina gourmet completamente equipada

💰 **Inversión Inteligente**
- ROI proyectado del [ROI_PROYECTADO]% anual
- Programa de rentas vacacionales incluido

¿Qué te parece más interesante de lo que te he compartido?`,
			Variables:     []string{"NOMBRE_CLIENTE", "TAMAÑO_TERRAZA", "ROI_PROYECTADO"},
			IsActive:      true,
			CreatedAt:     now.Add(-20 * 24 * time.Hour),
			UpdatedAt:     now.Add(-2 * 24 * time.Hour),
			Usage:         32,
			Effectiveness: 92,
		},
		{
			ID:   "3",
			Name: "Manejo de Objeciones - Precio",
			Type: models.ScriptTypeObjection,
			Content: `Entiendo perfectamente tu preocupación sobre el precio, [NOMBRE_CLIENTE]. Es una inversión importante.

Permíteme ponerte en perspectiva:

**Comparación de Mercado:**
- Propiedades similares en la zona: $[PRECIO_COMPETENCIA] MXN
- Nuestro precio: $[PRECIO_NUESTRO] MXN
- Diferencia: Estás ahorrando $[AHORRO] MXN

**Valor Agregado Incluido:**
- Programa de rentas vacacionales
- Mobiliario completo
- Mantenimiento por 2 años

**Financiamiento Disponible:**
- Enganche desde el [ENGANCHE]%
- Pagos mensuales desde $[PAGO_MENSUAL] MXN

¿Cuál de estas opciones te ayudaría más a tomar la decisión?`,
			Variables:     []string{"NOMBRE_CLIENTE", "PRECIO_COMPETENCIA", "PRECIO_NUESTRO", "AHORRO", "ENGANCHE", "PAGO_MENSUAL"},
			IsActive:      true,
			CreatedAt:     now.Add(-15 * 24 * time.Hour),
			UpdatedAt:     now.Add(-24 * time.Hour),
			Usage:         28,
			Effectiveness: 78,
		},
	}
}

func demoActivities() []models.Activity {
	now := time.Now()

	return []models.Activity{
		{
			ID:           "1",
			UserID:       "1",
			LeadID:       "1",
			Type:         "call",
			Title:        "Llamada de calificación",
			Description:  "Primera llamada de calificación con Carlos Hernández",
			PointsEarned: 5,
			Duration:     20,
			Outcome:      "Qualified lead, interested in penthouse units",
			Timestamp:    now.Add(-24 * time.Hour),
		},
		{
			ID:           "2",
			UserID:       "2",
			LeadID:       "2",
			Type:         "meeting",
			Title:        "Presentación Zoom",
			Description:  "Presentación virtual de propiedades",
			PointsEarned: 10,
			Duration:     45,
			Outcome:      "Interested, needs to discuss with partner",
			Timestamp:    now.Add(-2 * time.Hour),
		},
		{
			ID:           "3",
			UserID:       "5",
			LeadID:       "5",
			Type:         "meeting",
			Title:        "Visita presencial",
			Description:  "Visita a las instalaciones",
			PointsEarned: 15,
			Duration:     90,
			Outcome:      "Booking confirmed",
			Timestamp:    now.Add(-24 * time.Hour),
		},
	}
}

func demoPoints() []models.PointEvent {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	ev := func(userID, activityType, subtype string, points int) models.PointEvent {
		return models.PointEvent{
			UserID:       userID,
			ActivityType: activityType,
			Subtype:      subtype,
			Points:       points,
			Month:        month,
			Year:         year,
		}
	}

	return []models.PointEvent{
		// Mafer
		ev("1", models.PointActivityPresentation, "zoom_broker", 12),
		ev("1", models.PointActivityPresentation, "zoom_client", 45),
		ev("1", models.PointActivityPresentation, "physical_client", 35),
		ev("1", models.PointActivityResult, "booking", 10),
		ev("1", models.PointActivityResult, "alliance_sale", 15),
		ev("1", models.PointActivityResult, "direct_sale", 20),

		// Mariano
		ev("2", models.PointActivityPresentation, "zoom_broker", 18),
		ev("2", models.PointActivityPresentation, "zoom_client", 36),
		ev("2", models.PointActivityPresentation, "physical_broker", 18),
		ev("2", models.PointActivityResult, "booking", 10),
		ev("2", models.PointActivityResult, "alliance_sale", 30),

		// Pablo
		ev("3", models.PointActivityPresentation, "zoom_broker", 15),
		ev("3", models.PointActivityPresentation, "zoom_client", 27),
		ev("3", models.PointActivityPresentation, "physical_client", 30),
		ev("3", models.PointActivityResult, "booking", 10),
		ev("3", models.PointActivityResult, "direct_sale", 20),

		// Jaquelite
		ev("4", models.PointActivityPresentation, "zoom_client", 24),
		ev("4", models.PointActivityPresentation, "physical_client", 20),
		ev("4", models.PointActivityResult, "booking", 10),
		ev("4", models.PointActivityResult, "alliance_sale", 15),

		// Raquel
		ev("5", models.PointActivityPresentation, "zoom_client", 18),
		ev("5", models.PointActivityPresentation, "physical_client", 15),
		ev("5", models.PointActivityResult, "booking", 10),
		ev("5", models.PointActivityResult, "direct_sale", 20),
	}
}
