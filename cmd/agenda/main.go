package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/authclient"
	"github.com/psycoagenda/psycoagenda/internal/client"
	"github.com/psycoagenda/psycoagenda/pkg/config"
)

func main() {
	cmd := flag.String("cmd", "pacientes", "Command: connect|pacientes|paciente-add|paciente-del|sesiones|sesion-add|sesion-edit|sesion-del|stats|refresh|login|signup")
	urlFlag := flag.String("url", "", "Backend base URL (overrides the stored one)")
	id := flag.Int64("id", 0, "Record id (for del/edit)")
	nombre := flag.String("nombre", "", "Patient name")
	email := flag.String("email", "", "Email")
	telefono := flag.String("telefono", "", "Patient phone")
	pacienteID := flag.String("paciente", "", "Patient id for a session")
	fecha := flag.String("fecha", "", "Session date")
	asistencia := flag.String("asistencia", "", "Attendance: pendiente|asistio|no_asistio|cancelada")
	pago := flag.String("pago", "", "Payment: pendiente|pagado|no_aplica")
	monto := flag.String("monto", "", "Session amount")
	notas := flag.String("notas", "", "Session notes")
	password := flag.String("password", "", "Password (for login/signup)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	if *cmd == "login" || *cmd == "signup" {
		if err := runAuth(ctx, cfg, *cmd, *email, *password); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	}

	store, err := client.NewURLStore(cfg.Client.URLStorePath)
	if err != nil {
		log.Fatalf("failed to open url store: %v", err)
	}
	conn := client.NewConnection(store, cfg.Client.RequestTimeout, zap.NewNop())

	if *urlFlag != "" {
		err = conn.Connect(ctx, *urlFlag)
	} else {
		var connected bool
		connected, err = conn.AutoConnect(ctx)
		if err == nil && !connected {
			fmt.Println("No hay URL guardada. Usa --url para conectar.")
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Println("Error de conexión:", err)
		os.Exit(1)
	}

	app := client.NewApp(conn.API(), zap.NewNop())
	app.Confirm = confirmPrompt

	if err := run(ctx, app, conn, *cmd, flags{
		id: *id, nombre: *nombre, email: *email, telefono: *telefono,
		pacienteID: *pacienteID, fecha: *fecha, asistencia: *asistencia,
		pago: *pago, monto: *monto, notas: *notas,
	}); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

type flags struct {
	id                             int64
	nombre, email, telefono        string
	pacienteID, fecha              string
	asistencia, pago, monto, notas string
}

func run(ctx context.Context, app *client.App, conn *client.Connection, cmd string, f flags) error {
	switch cmd {
	case "connect":
		fmt.Println("Conectado a", conn.BaseURL())
		return nil
	case "pacientes":
		if err := app.ReloadPacientes(ctx); err != nil {
			return err
		}
		for _, p := range app.Pacientes {
			fmt.Printf("%d\t%s\t%s\t%s\n", p.ID, p.Nombre, p.Email, p.Telefono)
		}
		return nil
	case "paciente-add":
		app.NuevoPaciente = client.PacienteDraft{Nombre: f.nombre, Email: f.email, Telefono: f.telefono}
		return app.SubmitNuevoPaciente(ctx)
	case "paciente-del":
		if f.id == 0 {
			return fmt.Errorf("--id requerido")
		}
		return app.DeletePaciente(ctx, f.id)
	case "sesiones":
		if err := app.ReloadPacientes(ctx); err != nil {
			return err
		}
		if err := app.ReloadSesiones(ctx); err != nil {
			return err
		}
		for _, s := range app.Sesiones {
			fmt.Printf("%d\t%s\t%s\t%s\t%s\n", s.ID, s.Fecha, app.PacienteNombre(s.PacienteID), s.Asistencia, s.Pago)
		}
		return nil
	case "sesion-add":
		draft := app.EditNuevaSesion()
		*draft = client.SesionDraft{
			PacienteID: f.pacienteID, Fecha: f.fecha,
			Asistencia: f.asistencia, Pago: f.pago,
			Monto: f.monto, Notas: f.notas,
		}
		return app.SubmitNuevaSesion(ctx)
	case "sesion-edit":
		if f.id == 0 {
			return fmt.Errorf("--id requerido")
		}
		if err := app.ReloadSesiones(ctx); err != nil {
			return err
		}
		if err := app.StartEditSesion(f.id); err != nil {
			return err
		}
		applyEdit(app.SesionEnEdicion, f)
		return app.SubmitEditSesion(ctx)
	case "sesion-del":
		if f.id == 0 {
			return fmt.Errorf("--id requerido")
		}
		return app.DeleteSesion(ctx, f.id)
	case "stats":
		if err := app.ReloadEstadisticas(ctx); err != nil {
			return err
		}
		return printJSON(app.Estadisticas)
	case "refresh":
		if err := app.ReloadAll(ctx); err != nil {
			return err
		}
		fmt.Printf("%d pacientes, %d sesiones\n", len(app.Pacientes), len(app.Sesiones))
		return nil
	default:
		return fmt.Errorf("comando desconocido: %s", cmd)
	}
}

func applyEdit(draft *client.SesionDraft, f flags) {
	if f.pacienteID != "" {
		draft.PacienteID = f.pacienteID
	}
	if f.fecha != "" {
		draft.Fecha = f.fecha
	}
	if f.asistencia != "" {
		draft.Asistencia = f.asistencia
	}
	if f.pago != "" {
		draft.Pago = f.pago
	}
	if f.monto != "" {
		draft.Monto = f.monto
	}
	if f.notas != "" {
		draft.Notas = f.notas
	}
}

func runAuth(ctx context.Context, cfg *config.Config, cmd, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("--email y --password requeridos")
	}
	provider := authclient.New(cfg.Client.AuthProviderURL, cfg.Client.AuthAnonKey, cfg.Client.RequestTimeout, zap.NewNop())

	var (
		session *authclient.Session
		err     error
	)
	if cmd == "login" {
		session, err = provider.SignIn(ctx, email, password)
	} else {
		session, err = provider.SignUp(ctx, email, password)
	}
	if err != nil {
		return err
	}
	fmt.Println("Sesión iniciada como", session.User.Email)
	fmt.Println("Destino:", authclient.ResolveRoute(session.User))
	return nil
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s (s/N): ", message)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "s" || answer == "si" || answer == "sí"
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
