package domain

import "time"

// RegistryEntry: catálogo fijo de bosses. Solo lectura en runtime.
type RegistryEntry struct {
	ID      string
	Name    string
	Respawn time.Duration
}

// Registry es el roster completo (mantener números de mapa).
var Registry = []RegistryEntry{
	{ID: "windlong", Name: "02. Windlong (Gigantus)", Respawn: 2 * time.Hour},
	{ID: "death-valley", Name: "03. Death Valley (DeathCrow)", Respawn: 2 * time.Hour},
	{ID: "dark-forest", Name: "05. Dark Forest (Floneble)", Respawn: 3 * time.Hour},
	{ID: "limst", Name: "06. Limst (Chimera)", Respawn: 3 * time.Hour},
	{ID: "fire-plains", Name: "08. Fire Plains (Lindwurm)", Respawn: 3 * time.Hour},
	{ID: "croco-forest", Name: "10. Croco Forest (Gyes)", Respawn: 3 * time.Hour},
	{ID: "fog-valley", Name: "12. Fog Valley (Thrandir)", Respawn: 4 * time.Hour},
	{ID: "kar-volcano", Name: "14. Kar. Volcano (Ruginoa)", Respawn: 4 * time.Hour},
	{ID: "cremo-lake", Name: "17. Cremo Lake (Briare)", Respawn: 5 * time.Hour},
	{ID: "rain-bay", Name: "18. Rain Bay (Lythea)", Respawn: 5 * time.Hour},
	{ID: "akama-desert", Name: "19. Akama Salt Desert (Leo)", Respawn: 5 * time.Hour},
}

var registryByID = func() map[string]RegistryEntry {
	m := make(map[string]RegistryEntry, len(Registry))
	for _, e := range Registry {
		m[e.ID] = e
	}
	return m
}()

// Find valida un boss id contra el Registry.
func Find(id string) (RegistryEntry, bool) {
	e, ok := registryByID[id]
	return e, ok
}
