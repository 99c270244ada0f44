package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "start",
		Description: "Registrarte para recibir avisos de respawn y abrir el menú",
	},
	{
		Name:        "menu",
		Description: "Menú de bosses: cola de clan y tiempos de respawn",
	},
	{
		Name:        "help",
		Description: "Cómo funciona el bot",
	},
	{
		Name:        "stop",
		Description: "Darte de baja de los avisos por DM",
	},
	{
		Name:        "addadmin",
		Description: "Dar rol admin a un usuario (sólo el owner del bot)",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Usuario a promover",
			Required:    true,
		}},
	},
}

const helpText = "Instrucciones:\n" +
	"- `/start` — registrarte en el sistema (recibís los avisos por DM)\n" +
	"- `/stop` — darte de baja de los avisos (con `/start` volvés)\n" +
	"- `/menu` — menú de bosses: quién está en cola y cuándo respawnea cada uno\n" +
	"- `/addadmin user:<@user>` — dar admin (sólo el owner)\n" +
	"- Eligiendo un boss, un **admin** marca qué clan lo mató\n" +
	"- 💀 El kill se avisa a todos los registrados\n" +
	"- 🔔 10 minutos antes del respawn llega el aviso con la cola del clan\n" +
	"- ⚔️ Cuando respawnea, aviso de que está disponible de nuevo\n" +
	"- Botón «Otros»: re-arma el timer sin cambiar el crédito del kill\n" +
	"- Botón «Setup ⚙️»: timer manual, el bot te pide los minutos por mensaje"
