package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeState   = "STATE"
	TypeAct     = "ACT"
	TypeAck     = "ACK"
	TypeNotice  = "NOTICE"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
}

type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	WorldParams     WorldParams `json:"world_params"`
	Catalogs        Digests     `json:"catalogs"`
}

type WorldParams struct {
	TickRateHz    int   `json:"tick_rate_hz"`
	Width         int   `json:"width"`
	Height        int   `json:"height"`
	DayLengthSec  int   `json:"day_length_sec"`
	DaysPerSeason int   `json:"days_per_season"`
	Seed          int64 `json:"seed"`
}

type Digests struct {
	CropsDigest     string `json:"crops_digest"`
	ResourcesDigest string `json:"resources_digest"`
}

// ActMsg is a single player action aimed at a tile (or a scene transition).
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Action          string `json:"action"` // PLANT, TILL, HARVEST, STRIKE, CLEAR, ENTER, EXIT
	X               int    `json:"x"`
	Y               int    `json:"y"`
	Seed            string `json:"seed,omitempty"`     // PLANT
	Resource        string `json:"resource,omitempty"` // STRIKE
	Scene           string `json:"scene,omitempty"`    // ENTER
}

type AckMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	AckFor          string         `json:"ack_for"`
	Accepted        bool           `json:"accepted"`
	Code            string         `json:"code,omitempty"`
	Yield           map[string]int `json:"yield,omitempty"`
}

// StateMsg is the read model pushed to presentation clients.
type StateMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Scene           string         `json:"scene"`
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	Tiles           []uint16       `json:"tiles"`
	Crops           []CropState    `json:"crops"`
	Durability      []TileHits     `json:"durability"`
	Hour            float64        `json:"hour"`
	Day             int            `json:"day"`
	Season          int            `json:"season"`
	Weather         string         `json:"weather"`
	Darkness        float64        `json:"darkness"`
	Energy          int            `json:"energy"`
	Inventory       map[string]int `json:"inventory"`
	AvatarX         int            `json:"avatar_x"`
	AvatarY         int            `json:"avatar_y"`
}

type CropState struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Seed     string  `json:"seed"`
	Stage    float64 `json:"stage"`
	Withered bool    `json:"withered"`
}

type TileHits struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	HitsLeft int `json:"hits_left"`
}

// NoticeMsg carries session notifications (day started, season changed,
// save succeeded/failed) to UI collaborators.
type NoticeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Kind            string `json:"kind"`
	Day             int    `json:"day,omitempty"`
	OldSeason       int    `json:"old_season,omitempty"`
	NewSeason       int    `json:"new_season,omitempty"`
	Detail          string `json:"detail,omitempty"`
}
