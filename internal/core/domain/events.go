package domain

import "github.com/google/uuid"

// DriverEventType enumerates the MLME indications this SME consumes.
type DriverEventType string

const (
	EventBeacon        DriverEventType = "BEACON"
	EventProbeResponse DriverEventType = "PROBE_RESPONSE"
	EventScanEnd       DriverEventType = "SCAN_END"
	EventJoinConfirm   DriverEventType = "JOIN_CONFIRM"
	EventDeauthInd     DriverEventType = "DEAUTH_INDICATION"
)

// DriverEvent is one MLME indication from the driver event stream.
// Fields beyond Type are populated depending on the event kind.
type DriverEvent struct {
	Type DriverEventType
	BSS  *BSSDescription // BEACON / PROBE_RESPONSE
	Peer MAC             // JOIN_CONFIRM / DEAUTH_INDICATION
	Code uint16          // status or reason code
}

// DriverCommandType enumerates the MLME requests the SME emits.
type DriverCommandType string

const (
	CmdSetChannel DriverCommandType = "SET_CHANNEL"
	CmdTxFrame    DriverCommandType = "TX_FRAME"
	CmdJoin       DriverCommandType = "JOIN"
	CmdScanEnd    DriverCommandType = "SCAN_END"
)

// DriverCommand is one MLME request, consumed in order by the driver bridge.
type DriverCommand struct {
	Type    DriverCommandType
	Channel uint8
	Frame   []byte // serialized frame for TX_FRAME
	BSSID   MAC    // JOIN target
	SSID    string
}

// UserEventType tags completions emitted by the SME core toward clients.
type UserEventType string

const (
	UserScanDone UserEventType = "SCAN_DONE"
	UserJoinDone UserEventType = "JOIN_DONE"
)

// UserEvent resolves exactly one outstanding client command, identified by
// the token handed out when the command was accepted.
type UserEvent struct {
	Type  UserEventType
	Token uuid.UUID
	Scan  []BSSDescription // SCAN_DONE payload
	Err   error            // non-nil when the operation failed
}

// Stats is a read-only snapshot of SME core state, answered without mutation.
type Stats struct {
	DriverEvents   uint64          `json:"driver_events"`
	ScansCompleted uint64          `json:"scans_completed"`
	JoinsCompleted uint64          `json:"joins_completed"`
	PendingTokens  int             `json:"pending_tokens"`
	KnownBSS       map[Band]int    `json:"known_bss"`
	Associated     *BSSDescription `json:"associated,omitempty"`
}

// StatsQuery carries the reply channel for one statistics request.
type StatsQuery struct {
	Reply chan<- Stats
}
