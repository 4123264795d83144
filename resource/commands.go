package resource

import (
	"time"

	"infracore/event"
)

// Command is implemented by every ComputeResource command. Every command
// carries a correlation id and an explicitly-passed timestamp; handlers
// never read the clock themselves. CausationID identifies the command
// itself, so the event it produces (if any) can cite it as its immediate
// antecedent; a command triggered by a prior event rather than by an
// external caller carries that event's id instead (see SetCausation).
type Command interface {
	AggregateID() event.ID
	CorrelationID() event.CorrelationID
	CausationID() event.CausationID
	OccurredAt() time.Time
}

type base struct {
	aggregateID   event.ID
	correlationID event.CorrelationID
	causationID   event.CausationID
	at            time.Time
}

func (b base) AggregateID() event.ID             { return b.aggregateID }
func (b base) CorrelationID() event.CorrelationID { return b.correlationID }
func (b base) CausationID() event.CausationID     { return b.causationID }
func (b base) OccurredAt() time.Time              { return b.at }

// SetCausation overrides the command's causation id, for the case where
// this command is itself a reaction to a prior event rather than to an
// external caller; the caller passes that event's id (via
// event.CausationFromEventID) instead of the command's own minted id.
func (b *base) SetCausation(c event.CausationID) { b.causationID = c }

// newBase mints the command's own causation id. This is the one place
// outside event.IDSource.New that the non-determinism of New generates an
// identifier; it runs at command construction, before any handler sees the
// command, so handle itself stays pure.
func newBase(aggregateID event.ID, correlationID event.CorrelationID, at time.Time) base {
	return base{aggregateID: aggregateID, correlationID: correlationID, causationID: event.NewCausationID(), at: at}
}

type Register struct {
	base
	Hostname     string
	ResourceType string
}

func NewRegister(aggregateID event.ID, hostname, resourceType string, at time.Time, corr event.CorrelationID) Register {
	return Register{base: newBase(aggregateID, corr, at), Hostname: hostname, ResourceType: resourceType}
}

type AssignOrganization struct {
	base
	OrganizationID string
}

func NewAssignOrganization(aggregateID event.ID, organizationID string, at time.Time, corr event.CorrelationID) AssignOrganization {
	return AssignOrganization{base: newBase(aggregateID, corr, at), OrganizationID: organizationID}
}

type AssignLocation struct {
	base
	LocationID string
}

func NewAssignLocation(aggregateID event.ID, locationID string, at time.Time, corr event.CorrelationID) AssignLocation {
	return AssignLocation{base: newBase(aggregateID, corr, at), LocationID: locationID}
}

type AssignOwner struct {
	base
	OwnerID string
}

func NewAssignOwner(aggregateID event.ID, ownerID string, at time.Time, corr event.CorrelationID) AssignOwner {
	return AssignOwner{base: newBase(aggregateID, corr, at), OwnerID: ownerID}
}

type AddPolicy struct {
	base
	PolicyID string
}

func NewAddPolicy(aggregateID event.ID, policyID string, at time.Time, corr event.CorrelationID) AddPolicy {
	return AddPolicy{base: newBase(aggregateID, corr, at), PolicyID: policyID}
}

type RemovePolicy struct {
	base
	PolicyID string
}

func NewRemovePolicy(aggregateID event.ID, policyID string, at time.Time, corr event.CorrelationID) RemovePolicy {
	return RemovePolicy{base: newBase(aggregateID, corr, at), PolicyID: policyID}
}

type AssignAccountConcept struct {
	base
	AccountConceptID string
}

func NewAssignAccountConcept(aggregateID event.ID, accountConceptID string, at time.Time, corr event.CorrelationID) AssignAccountConcept {
	return AssignAccountConcept{base: newBase(aggregateID, corr, at), AccountConceptID: accountConceptID}
}

type ClearAccountConcept struct {
	base
}

func NewClearAccountConcept(aggregateID event.ID, at time.Time, corr event.CorrelationID) ClearAccountConcept {
	return ClearAccountConcept{base: newBase(aggregateID, corr, at)}
}

type SetHardwareDetails struct {
	base
	Manufacturer string
	Model        string
	SerialNumber string
}

func NewSetHardwareDetails(aggregateID event.ID, manufacturer, model, serialNumber string, at time.Time, corr event.CorrelationID) SetHardwareDetails {
	return SetHardwareDetails{base: newBase(aggregateID, corr, at), Manufacturer: manufacturer, Model: model, SerialNumber: serialNumber}
}

type AssignAssetTag struct {
	base
	AssetTag string
}

func NewAssignAssetTag(aggregateID event.ID, assetTag string, at time.Time, corr event.CorrelationID) AssignAssetTag {
	return AssignAssetTag{base: newBase(aggregateID, corr, at), AssetTag: assetTag}
}

type UpdateMetadata struct {
	base
	Key   string
	Value string
}

func NewUpdateMetadata(aggregateID event.ID, key, value string, at time.Time, corr event.CorrelationID) UpdateMetadata {
	return UpdateMetadata{base: newBase(aggregateID, corr, at), Key: key, Value: value}
}

type ChangeStatus struct {
	base
	ToStatus Status
}

func NewChangeStatus(aggregateID event.ID, toStatus Status, at time.Time, corr event.CorrelationID) ChangeStatus {
	return ChangeStatus{base: newBase(aggregateID, corr, at), ToStatus: toStatus}
}
