package model

// DefaultDPThreshold is the shipped ΔP alert threshold in psi.
const DefaultDPThreshold = 15.0

// AlertConfig is the single global operational configuration. Mutated only
// through the authz gate; always passed explicitly into the alert engine so
// evaluations stay deterministic.
type AlertConfig struct {
	DPThreshold float64 `json:"dp_threshold"`
	DataDir     string  `json:"data_dir"`
}

// Role is caller-supplied context from the request layer. The gate is the
// single enforcement point; a real session layer would fill this server-side.
type Role string

const (
	RoleOperador   Role = "Operador"
	RoleSupervisor Role = "Supervisor"
)
