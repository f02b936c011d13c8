package models

// Facility keys.
const (
	ArchiveOfMemories = "archiveOfMemories"
	RestorationRoom   = "restorationRoom"
	CentralHall       = "centralHall"
	SpecialArchive    = "specialArchive"
	CommunityLounge   = "communityLounge"
)

// MaintenanceCost is charged to restore any record room to full durability.
var MaintenanceCost = map[Resource]int{Records: 10, Ink: 10}

// FacilityDef is the static description of a record room.
type FacilityDef struct {
	Key               string
	Name              string
	Description       string
	EffectDescription string
	Cost              map[Resource]int
}

// FacilityDefinitions lists every record room in display order.
var FacilityDefinitions = []FacilityDef{
	{
		Key:               ArchiveOfMemories,
		Name:              "Archive of Memories",
		Description:       "Keeps old records safe.",
		EffectDescription: "Raises memory and stability.",
		Cost:              map[Resource]int{OldBooks: 50, Records: 20},
	},
	{
		Key:               RestorationRoom,
		Name:              "Restoration Room",
		Description:       "Restores and preserves damaged records.",
		EffectDescription: "Raises dedication and tradition.",
		Cost:              map[Resource]int{Records: 30, Ink: 30},
	},
	{
		Key:               CentralHall,
		Name:              "Central Hall",
		Description:       "Welcomes visitors and anchors the library.",
		EffectDescription: "Raises service and stability.",
		Cost:              map[Resource]int{OldBooks: 100, Records: 50, Ink: 50},
	},
	{
		Key:               SpecialArchive,
		Name:              "Special Archive",
		Description:       "Cares for rare and important records.",
		EffectDescription: "Raises memory and tradition.",
		Cost:              map[Resource]int{Records: 80, Ink: 40},
	},
	{
		Key:               CommunityLounge,
		Name:              "Community Lounge",
		Description:       "A place where visitors and librarians meet.",
		EffectDescription: "Raises service and dedication.",
		Cost:              map[Resource]int{Records: 50, Ink: 100},
	},
}

// FacilityDefinition looks up a record room by key.
func FacilityDefinition(key string) *FacilityDef {
	for i := range FacilityDefinitions {
		if FacilityDefinitions[i].Key == key {
			return &FacilityDefinitions[i]
		}
	}
	return nil
}

func newFacility(def FacilityDef) Facility {
	return Facility{
		Durability:        MaxDurability,
		Name:              def.Name,
		Description:       def.Description,
		EffectDescription: def.EffectDescription,
	}
}
