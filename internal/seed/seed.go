// Package seed holds the sample catalog and demo accounts loaded on first run.
package seed

import (
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

// DemoAccount is a demo login. Passwords are hashed before storage.
type DemoAccount struct {
	ID       string
	Email    string
	Password string
	Name     string
	Role     models.Role
	Phone    string
	Created  time.Time
}

// AdminID is the fixed id of the admin demo account.
const AdminID = "admin"

// DemoAccounts returns one account per role. The admin credentials are
// supplied by configuration.
func DemoAccounts(adminEmail, adminPassword string) []DemoAccount {
	return []DemoAccount{
		{ID: "1", Email: "proprietaire@example.com", Password: "123456", Name: "Jean Diallo", Role: models.RoleOwner, Phone: "+221771234567", Created: day(2024, 1, 1)},
		{ID: "2", Email: "courtier@example.com", Password: "123456", Name: "Marie Ndiaye", Role: models.RoleBroker, Phone: "+221775678901", Created: day(2024, 1, 2)},
		{ID: "3", Email: "locataire@example.com", Password: "123456", Name: "Amadou Ba", Role: models.RoleRenter, Phone: "+221779876543", Created: day(2024, 1, 3)},
		Admin(adminEmail, adminPassword),
	}
}

func Admin(email, password string) DemoAccount {
	return DemoAccount{ID: AdminID, Email: email, Password: password, Name: "Administrateur", Role: models.RoleAdmin, Phone: "+221771111111", Created: day(2024, 1, 1)}
}

// Listings returns the ten sample listings. They have no owner.
func Listings() []models.Listing {
	return []models.Listing{
		{
			ID: "1", Title: "Chambre meublée à Yoff", City: "Dakar", District: "Yoff", Type: models.TypeRoom,
			Price: 45000, Deposit: xof(90000),
			Description: "Chambre spacieuse et lumineuse dans une maison calme. Meublée avec lit, armoire, bureau. Proche de la plage et des transports.",
			Amenities:   []string{"wifi", "climatisation", "eau courante", "électricité"},
			Photos:      photos("photo-1522708323590-d24dbb6b0267", "photo-1586023492125-27b2c045efd7"),
			Phone:       "+221771234567", WhatsApp: "+221771234567",
			Coordinates: &models.Coordinates{Lat: 14.7821, Lng: -17.4916},
			CreatedAt:   day(2024, 1, 15),
		},
		{
			ID: "2", Title: "Studio indépendant à Almadies", City: "Dakar", District: "Almadies", Type: models.TypeStudio,
			Price: 75000, Deposit: xof(150000),
			Description: "Studio moderne et indépendant, idéal pour étudiant ou jeune actif. Cuisine équipée, salle de bain privée, terrasse.",
			Amenities:   []string{"wifi", "climatisation", "cuisine équipée", "eau courante", "électricité", "terrasse"},
			Photos:      photos("photo-1560448204-e02f11c3d0e2", "photo-1502672260266-1c1ef2d93688"),
			Phone:       "+221775678901", WhatsApp: "+221775678901",
			Coordinates: &models.Coordinates{Lat: 14.7464, Lng: -17.5053},
			CreatedAt:   day(2024, 1, 20),
		},
		{
			ID: "3", Title: "Appartement F2 à Mermoz", City: "Dakar", District: "Mermoz", Type: models.TypeApartment,
			Price: 120000, Deposit: xof(240000),
			Description: "Appartement 2 pièces bien aménagé, salon, chambre, cuisine et salle de bain. Au 2ème étage avec ascenseur. Sécurisé.",
			Amenities:   []string{"wifi", "climatisation", "cuisine équipée", "eau courante", "électricité", "gardien", "ascenseur"},
			Photos:      photos("photo-1493809842364-78817add7ffb", "photo-1560448075-cbc16bb4af80"),
			Phone:       "+221772345678", WhatsApp: "+221772345678",
			Coordinates: &models.Coordinates{Lat: 14.7056, Lng: -17.4563},
			CreatedAt:   day(2024, 1, 18),
		},
		{
			ID: "4", Title: "Chambre chez l'habitant à Thiès Centre", City: "Thiès", District: "Thiès Centre", Type: models.TypeRoom,
			Price: 30000, Deposit: xof(60000),
			Description: "Chambre dans maison familiale, calme et sécurisée. Accès cuisine et salle de bain partagés. Idéal pour étudiant.",
			Amenities:   []string{"wifi", "eau courante", "électricité", "cuisine partagée"},
			Photos:      photos("photo-1554995207-c18c203602cb"),
			Phone:       "+221776789012", WhatsApp: "+221776789012",
			Coordinates: &models.Coordinates{Lat: 14.7886, Lng: -16.9261},
			CreatedAt:   day(2024, 1, 22),
		},
		{
			ID: "5", Title: "Studio cosy à Saint-Louis", City: "Saint-Louis", District: "Ndar", Type: models.TypeStudio,
			Price: 50000, Deposit: xof(100000),
			Description: "Studio récent dans le centre historique de Saint-Louis. Vue sur la mer, proche de tous les services.",
			Amenities:   []string{"wifi", "climatisation", "eau courante", "électricité", "vue mer"},
			Photos:      photos("photo-1505693416388-ac5ce068fe85", "photo-1583608205776-bfd35f0d9f83"),
			Phone:       "+221773456789", WhatsApp: "+221773456789",
			Coordinates: &models.Coordinates{Lat: 16.0179, Lng: -16.4896},
			CreatedAt:   day(2024, 1, 25),
		},
		{
			ID: "6", Title: "Chambre avec balcon à Ouakam", City: "Dakar", District: "Ouakam", Type: models.TypeRoom,
			Price: 55000, Deposit: xof(110000),
			Description: "Chambre avec balcon vue mer, dans résidence sécurisée. Proche plage de Ouakam et universités.",
			Amenities:   []string{"wifi", "climatisation", "eau courante", "électricité", "balcon", "vue mer", "gardien"},
			Photos:      photos("photo-1556912173-54e9d8e457e4"),
			Phone:       "+221774567890", WhatsApp: "+221774567890",
			Coordinates: &models.Coordinates{Lat: 14.7167, Lng: -17.4677},
			CreatedAt:   day(2024, 1, 12),
		},
		{
			ID: "7", Title: "Appartement T2 à Ziguinchor", City: "Ziguinchor", District: "Centre-ville", Type: models.TypeApartment,
			Price: 80000, Deposit: xof(160000),
			Description: "Appartement spacieux 2 pièces, parfait pour couple ou famille. Quartier calme, tous commerces à proximité.",
			Amenities:   []string{"wifi", "climatisation", "cuisine équipée", "eau courante", "électricité", "parking"},
			Photos:      photos("photo-1522771739844-6a9f6d5f14af", "photo-1560448204-61dc36dc3d93"),
			Phone:       "+221775678901", WhatsApp: "+221775678901",
			Coordinates: &models.Coordinates{Lat: 12.5831, Lng: -16.2719},
			CreatedAt:   day(2024, 1, 28),
		},
		{
			ID: "8", Title: "Studio étudiant à Grand-Yoff", City: "Dakar", District: "Grand-Yoff", Type: models.TypeStudio,
			Price: 40000, Deposit: xof(80000),
			Description: "Studio économique pour étudiant, proche UCAD et transports. Simple mais fonctionnel.",
			Amenities:   []string{"wifi", "eau courante", "électricité"},
			Photos:      photos("photo-1505693314120-0d443867891c"),
			Phone:       "+221776789012", WhatsApp: "+221776789012",
			Coordinates: &models.Coordinates{Lat: 14.7489, Lng: -17.4419},
			CreatedAt:   day(2024, 1, 30),
		},
		{
			ID: "9", Title: "Chambre meublée à Point E", City: "Dakar", District: "Point E", Type: models.TypeRoom,
			Price: 60000, Deposit: xof(120000),
			Description: "Chambre dans appartement partagé, colocation sympa. Salon commun, cuisine équipée, wifi inclus.",
			Amenities:   []string{"wifi", "climatisation", "eau courante", "électricité", "cuisine équipée", "salon"},
			Photos:      photos("photo-1560448075-cbc16bb4af80", "photo-1522708323590-d24dbb6b0267"),
			Phone:       "+221777890123", WhatsApp: "+221777890123",
			Coordinates: &models.Coordinates{Lat: 14.7061, Lng: -17.4550},
			CreatedAt:   day(2024, 1, 10),
		},
		{
			ID: "10", Title: "Studio neuf à Liberté 6", City: "Dakar", District: "Liberté 6", Type: models.TypeStudio,
			Price: 65000, Deposit: xof(130000),
			Description: "Studio neuf, rénové récemment. Climatisation, eau chaude, wifi fibre. Quartier résidentiel calme.",
			Amenities:   []string{"wifi", "climatisation", "eau courante", "eau chaude", "électricité", "neuf"},
			Photos:      photos("photo-1560449752-1d3b62fdd7a9", "photo-1484154218962-a197022b5858"),
			Phone:       "+221778901234", WhatsApp: "+221778901234",
			Coordinates: &models.Coordinates{Lat: 14.7225, Lng: -17.4622},
			CreatedAt:   day(2024, 2, 1),
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func xof(v int64) *int64 { return &v }

func photos(ids ...string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "https://images.unsplash.com/" + id + "?w=800"
	}
	return out
}
