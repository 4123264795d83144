package resource

import "infracore/event"

// ResourceRegistered is the root event of a ComputeResource: it is the only
// event that may be applied to an uninitialized aggregate, and it may be
// applied at most once.
type ResourceRegistered struct {
	Hostname     Hostname     `json:"hostname"`
	ResourceType ResourceType `json:"resource_type"`
}

func (ResourceRegistered) EventType() string    { return "ResourceRegistered" }
func (ResourceRegistered) CurrentVersion() uint32 { return 1 }

type OrganizationAssigned struct {
	OrganizationID string `json:"organization_id"`
}

func (OrganizationAssigned) EventType() string    { return "OrganizationAssigned" }
func (OrganizationAssigned) CurrentVersion() uint32 { return 1 }

type LocationAssigned struct {
	LocationID string `json:"location_id"`
}

func (LocationAssigned) EventType() string    { return "LocationAssigned" }
func (LocationAssigned) CurrentVersion() uint32 { return 1 }

type OwnerAssigned struct {
	OwnerID string `json:"owner_id"`
}

func (OwnerAssigned) EventType() string    { return "OwnerAssigned" }
func (OwnerAssigned) CurrentVersion() uint32 { return 1 }

type PolicyAdded struct {
	PolicyID string `json:"policy_id"`
}

func (PolicyAdded) EventType() string    { return "PolicyAdded" }
func (PolicyAdded) CurrentVersion() uint32 { return 1 }

type PolicyRemoved struct {
	PolicyID string `json:"policy_id"`
}

func (PolicyRemoved) EventType() string    { return "PolicyRemoved" }
func (PolicyRemoved) CurrentVersion() uint32 { return 1 }

type AccountConceptAssigned struct {
	AccountConceptID string `json:"account_concept_id"`
}

func (AccountConceptAssigned) EventType() string    { return "AccountConceptAssigned" }
func (AccountConceptAssigned) CurrentVersion() uint32 { return 1 }

type AccountConceptCleared struct{}

func (AccountConceptCleared) EventType() string    { return "AccountConceptCleared" }
func (AccountConceptCleared) CurrentVersion() uint32 { return 1 }

type HardwareDetailsSet struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
}

func (HardwareDetailsSet) EventType() string    { return "HardwareDetailsSet" }
func (HardwareDetailsSet) CurrentVersion() uint32 { return 1 }

type AssetTagAssigned struct {
	AssetTag string `json:"asset_tag"`
}

func (AssetTagAssigned) EventType() string    { return "AssetTagAssigned" }
func (AssetTagAssigned) CurrentVersion() uint32 { return 1 }

type MetadataUpdated struct {
	Key   MetadataKey `json:"key"`
	Value string      `json:"value"`
}

func (MetadataUpdated) EventType() string    { return "MetadataUpdated" }
func (MetadataUpdated) CurrentVersion() uint32 { return 1 }

// StatusChanged carries both endpoints of the transition so projectors and
// auditors can reason about it without replaying history.
type StatusChanged struct {
	FromStatus Status `json:"from_status"`
	ToStatus   Status `json:"to_status"`
}

func (StatusChanged) EventType() string    { return "StatusChanged" }
func (StatusChanged) CurrentVersion() uint32 { return 1 }

// RegisterPayloads adds every ComputeResource event type to reg, for use by
// an event.Codec decoding ComputeResource streams.
func RegisterPayloads(reg *event.PayloadRegistry) {
	reg.Register(ResourceRegistered{})
	reg.Register(OrganizationAssigned{})
	reg.Register(LocationAssigned{})
	reg.Register(OwnerAssigned{})
	reg.Register(PolicyAdded{})
	reg.Register(PolicyRemoved{})
	reg.Register(AccountConceptAssigned{})
	reg.Register(AccountConceptCleared{})
	reg.Register(HardwareDetailsSet{})
	reg.Register(AssetTagAssigned{})
	reg.Register(MetadataUpdated{})
	reg.Register(StatusChanged{})
}
