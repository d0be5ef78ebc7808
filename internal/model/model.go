package model

// Wire types for the operations backend. Field names and JSON tags follow the
// REST API exactly; timestamps travel as strings (the backend accepts
// YYYY-MM-DD or a local datetime without zone) and are only parsed where a
// component needs to order or compare them.

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
	RoleUser      Role = "USER"
)

type Group struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Identity is the current-user record returned by GET /auth/me.
type Identity struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Age           *int    `json:"age,omitempty"`
	JobTitle      *string `json:"job_title,omitempty"`
	Role          Role    `json:"role"`
	IsActive      bool    `json:"is_active"`
	EmailVerified bool    `json:"email_verified"`
	Theme         string  `json:"theme"`
	GroupID       *string `json:"group_id,omitempty"`
	Group         *Group  `json:"group,omitempty"`
}

func (id *Identity) FullName() string {
	if id == nil {
		return ""
	}
	return id.FirstName + " " + id.LastName
}

// User is the admin-facing user record (no group expansion, no theme).
type User struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Age           *int    `json:"age,omitempty"`
	JobTitle      *string `json:"job_title,omitempty"`
	Role          Role    `json:"role"`
	IsActive      bool    `json:"is_active"`
	EmailVerified bool    `json:"email_verified"`
	GroupID       *string `json:"group_id,omitempty"`
}

// Event is a calendar entry. Start is required for persistence; End is
// optional and its ordering relative to Start is validated by the backend.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Start       string   `json:"start"`
	End         *string  `json:"end,omitempty"`
	AllDay      bool     `json:"all_day"`
	Description *string  `json:"description,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Resources   []string `json:"resources,omitempty"`
	RRule       *string  `json:"rrule,omitempty"`
	GroupID     *string  `json:"group_id,omitempty"`
	OwnerID     *string  `json:"owner_id,omitempty"`
}

type Severity string

const (
	SeverityP0 Severity = "P0"
	SeverityP1 Severity = "P1"
	SeverityP2 Severity = "P2"
	SeverityP3 Severity = "P3"
)

type TicketStatus string

const (
	TicketOpen     TicketStatus = "OPEN"
	TicketResolved TicketStatus = "RESOLVED"
)

type Ticket struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Severity  Severity     `json:"severity"`
	Status    TicketStatus `json:"status"`
	CreatedAt string       `json:"created_at"`
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Status        TaskStatus `json:"status"`
	Priority      Severity   `json:"priority"`
	DueAt         *string    `json:"due_at,omitempty"`
	EstimateHours *float64   `json:"estimate_hours,omitempty"`
	GitlabMRURL   *string    `json:"gitlab_mr_url,omitempty"`
	GitlabJobURL  *string    `json:"gitlab_job_url,omitempty"`
}

type CPULoad struct {
	Avg1  float64 `json:"avg_1"`
	Avg5  float64 `json:"avg_5"`
	Avg15 float64 `json:"avg_15"`
}

type CPUMetrics struct {
	Cores int     `json:"cores"`
	Load  CPULoad `json:"load"`
}

type MemoryMetrics struct {
	TotalBytes     *int64 `json:"total_bytes"`
	UsedBytes      *int64 `json:"used_bytes"`
	AvailableBytes *int64 `json:"available_bytes"`
}

type StorageMetrics struct {
	Path       string `json:"path"`
	TotalBytes *int64 `json:"total_bytes"`
	UsedBytes  *int64 `json:"used_bytes"`
	FreeBytes  *int64 `json:"free_bytes"`
}

type Metrics struct {
	CPU     CPUMetrics     `json:"cpu"`
	Memory  MemoryMetrics  `json:"memory"`
	Storage StorageMetrics `json:"storage"`
}

// ServerTarget is a managed remote host whose metrics the backend collects
// over SSH.
type ServerTarget struct {
	ID       string  `json:"id"`
	Host     string  `json:"host"`
	Name     *string `json:"name,omitempty"`
	SSHPort  int     `json:"ssh_port"`
	DiskPath string  `json:"disk_path"`
}

type RemoteTarget struct {
	Host     string `json:"host"`
	SSHPort  int    `json:"ssh_port"`
	DiskPath string `json:"disk_path"`
}

type RemoteMetrics struct {
	Metrics
	Target      RemoteTarget `json:"target"`
	Reachable   bool         `json:"reachable"`
	CollectedAt string       `json:"collected_at"`
	Method      *string      `json:"method"`
	Error       *string      `json:"error"`
}

type InventoryHost struct {
	Name string  `json:"name"`
	IP   *string `json:"ip"`
}

type InventoryGroup struct {
	Group string          `json:"group"`
	Hosts []InventoryHost `json:"hosts"`
}

// InventoryAnalysis is the result shape of POST /ansible/analyze.
type InventoryAnalysis struct {
	InventoryFile string           `json:"inventory_file"`
	Groups        []InventoryGroup `json:"groups"`
}
