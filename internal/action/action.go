// Package action defines the closed set of things a player can do.
package action

import (
	"errors"
	"fmt"
)

// ErrUnknown is returned when a wire name matches no action.
var ErrUnknown = errors.New("unknown action")

// Kind identifies an action.
type Kind int

const (
	Invalid Kind = iota
	OrganizeArchive
	ChatWithLibrarian
	HoldMeeting
	ShowMaterialCollection
	ShowRecordRoomManagement
	ShowQuietRest
	ReturnToIntro
	CollectOldBooks
	RestoreRecords
	SecureInk
	BuildArchiveOfMemories
	BuildRestorationRoom
	BuildCentralHall
	BuildSpecialArchive
	BuildCommunityLounge
	MaintainRecordRoom
	UpgradeLibrary
	ViewOldAlbums
	FindLostItems
	HandleLibrarianDispute
	MediateLibrarianDispute
	IgnoreEvent
	RestoreTradition
	DeclineTraditionRestoration
	ImproveService
	MaintainCurrentService
	WelcomeNewLibrarian
	ObserveLibrarian
	RejectLibrarian
	PlayMinigame
	ManualNextDay

	numKinds
)

var names = [numKinds]string{
	Invalid:                     "",
	OrganizeArchive:             "organize_archive",
	ChatWithLibrarian:           "chat_with_librarian",
	HoldMeeting:                 "hold_meeting",
	ShowMaterialCollection:      "show_material_collection_options",
	ShowRecordRoomManagement:    "show_record_room_management_options",
	ShowQuietRest:               "show_quiet_rest_options",
	ReturnToIntro:               "return_to_intro",
	CollectOldBooks:             "collect_old_books",
	RestoreRecords:              "restore_records",
	SecureInk:                   "secure_ink",
	BuildArchiveOfMemories:      "build_archiveOfMemories",
	BuildRestorationRoom:        "build_restorationRoom",
	BuildCentralHall:            "build_centralHall",
	BuildSpecialArchive:         "build_specialArchive",
	BuildCommunityLounge:        "build_communityLounge",
	MaintainRecordRoom:          "maintain_record_room",
	UpgradeLibrary:              "upgrade_library",
	ViewOldAlbums:               "view_old_albums",
	FindLostItems:               "find_lost_items",
	HandleLibrarianDispute:      "handle_librarian_dispute",
	MediateLibrarianDispute:     "mediate_librarian_dispute",
	IgnoreEvent:                 "ignore_event",
	RestoreTradition:            "restore_tradition",
	DeclineTraditionRestoration: "decline_tradition_restoration",
	ImproveService:              "improve_service",
	MaintainCurrentService:      "maintain_current_service",
	WelcomeNewLibrarian:         "welcome_new_unique_librarian",
	ObserveLibrarian:            "observe_librarian",
	RejectLibrarian:             "reject_librarian",
	PlayMinigame:                "play_minigame",
	ManualNextDay:               "manual_next_day",
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k := OrganizeArchive; k < numKinds; k++ {
		m[names[k]] = k
	}
	return m
}()

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return names[k]
}

// Kinds returns every valid kind.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := OrganizeArchive; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind maps a wire name to its kind.
func ParseKind(name string) (Kind, error) {
	if k, ok := byName[name]; ok {
		return k, nil
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// BuildTarget returns the facility key a build kind constructs.
func (k Kind) BuildTarget() (string, bool) {
	switch k {
	case BuildArchiveOfMemories:
		return "archiveOfMemories", true
	case BuildRestorationRoom:
		return "restorationRoom", true
	case BuildCentralHall:
		return "centralHall", true
	case BuildSpecialArchive:
		return "specialArchive", true
	case BuildCommunityLounge:
		return "communityLounge", true
	}
	return "", false
}

// BuildKind is the inverse of BuildTarget.
func BuildKind(facility string) (Kind, bool) {
	for _, k := range []Kind{BuildArchiveOfMemories, BuildRestorationRoom, BuildCentralHall, BuildSpecialArchive, BuildCommunityLounge} {
		if key, _ := k.BuildTarget(); key == facility {
			return k, true
		}
	}
	return Invalid, false
}

// Params carries the arguments some actions take.
type Params struct {
	Room   string `yaml:"room,omitempty" json:"room,omitempty"`
	First  string `yaml:"first,omitempty" json:"first,omitempty"`
	Second string `yaml:"second,omitempty" json:"second,omitempty"`
}

// Action is a kind with its parameters.
type Action struct {
	Kind   Kind
	Params Params
}

// New returns an action without parameters.
func New(k Kind) Action { return Action{Kind: k} }

// Parse builds an action from a wire name and parameters.
func Parse(name string, p Params) (Action, error) {
	k, err := ParseKind(name)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: k, Params: p}, nil
}

func (a Action) String() string { return a.Kind.String() }

// CostsPoint reports whether carrying out the action spends a work point.
func (k Kind) CostsPoint() bool {
	switch k {
	case ShowMaterialCollection, ShowRecordRoomManagement, ShowQuietRest, ReturnToIntro, ManualNextDay:
		return false
	}
	return true
}
