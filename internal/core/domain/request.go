package domain

// RequestOp is the operation a client asks the SME to perform.
type RequestOp string

const (
	OpScan   RequestOp = "scan"
	OpJoin   RequestOp = "join"
	OpStatus RequestOp = "status"
)

// Request is one decoded client command. ID is client-chosen and echoed back
// so the client can correlate asynchronous responses.
type Request struct {
	ID       uint64    `json:"id"`
	Op       RequestOp `json:"op"`
	SSIDs    []string  `json:"ssids,omitempty"`
	Channels []uint8   `json:"channels,omitempty"`
	BSSID    string    `json:"bssid,omitempty"`
	SSID     string    `json:"ssid,omitempty"`
}

// Response answers one Request. Exactly one of the payload fields is set
// depending on the operation; Error is set when the command failed.
type Response struct {
	ID    uint64           `json:"id"`
	Op    RequestOp        `json:"op"`
	Error string           `json:"error,omitempty"`
	Scan  []BSSDescription `json:"scan,omitempty"`
	BSS   *BSSDescription  `json:"bss,omitempty"`
	Stats *Stats           `json:"stats,omitempty"`
}
