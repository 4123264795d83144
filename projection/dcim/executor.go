package dcim

import (
	"context"
	"net/url"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"infracore/projection"
)

// Executor drives the DCIM/IPAM REST API from §6's effect mapping. Every
// create is get-or-create by the natural key the field mapping specifies,
// so replaying the same event twice never duplicates a resource.
type Executor struct {
	client      *Client
	defaultSite string
}

// NewExecutor builds an Executor. defaultSite is stamped onto devices
// registered without a site of their own — the §6 "default-scope id" the
// projector binary is configured with.
func NewExecutor(client *Client, defaultSite string) *Executor {
	return &Executor{client: client, defaultSite: defaultSite}
}

// Execute attempts every effect in the batch rather than stopping at the
// first failure, and reports all failures together — an IPAssigned event
// that also needed an interface lookup shouldn't hide a separate, unrelated
// device-update failure earlier in the same batch.
func (e *Executor) Execute(ctx context.Context, effects []projection.Effect) error {
	var result *multierror.Error
	for _, eff := range effects {
		var err error
		switch {
		case eff.Kind == projection.EffectDatabaseWrite && eff.Collection == "devices":
			err = e.createDevice(ctx, eff)
		case eff.Kind == projection.EffectDatabaseUpdate && eff.Collection == "devices":
			err = e.updateDeviceHardware(ctx, eff)
		case eff.Kind == projection.EffectDatabaseWrite && eff.Collection == "prefixes":
			err = e.createPrefix(ctx, eff)
		case eff.Kind == projection.EffectDatabaseWrite && eff.Collection == "interfaces":
			err = e.createInterface(ctx, eff)
		case eff.Kind == projection.EffectDatabaseWrite && eff.Collection == "ip-addresses":
			err = e.createIPAddress(ctx, eff)
		case eff.Kind == projection.EffectLog || eff.Kind == projection.EffectDatabaseDelete ||
			eff.Kind == projection.EffectDatabaseQuery || eff.Kind == projection.EffectEmitEvent:
			// DCIM executor has no use for these effect kinds.
		}
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (e *Executor) createDevice(ctx context.Context, eff projection.Effect) error {
	name, _ := eff.Data["name"].(string)
	role, _ := eff.Data["device_role"].(string)

	deviceRole, err := e.client.getOrCreate(ctx, "/api/dcim/device-roles/", "slug", role, map[string]any{
		"name": role, "slug": role,
	})
	if err != nil {
		return errors.Wrap(err, "dcim: get-or-create device role")
	}

	body := map[string]any{
		"name":          name,
		"device_role":   idOf(deviceRole),
		"site":          e.defaultSite,
		"status":        eff.Data["status"],
		"custom_fields": eff.Data["custom_fields"],
	}
	_, err = e.client.getOrCreate(ctx, "/api/dcim/devices/", "name", name, body)
	if err != nil {
		return errors.Wrap(err, "dcim: get-or-create device")
	}
	return nil
}

// updateDeviceHardware resolves the device type from (manufacturer, model)
// — creating it if absent — and patches it onto the device that was
// registered with this aggregate id.
func (e *Executor) updateDeviceHardware(ctx context.Context, eff projection.Effect) error {
	manufacturer, _ := eff.Updates["manufacturer"].(string)
	model, _ := eff.Updates["model"].(string)
	if manufacturer == "" || model == "" {
		return nil
	}

	device, found, err := e.client.findOneByFilter(ctx, "/api/dcim/devices/", "cf_cim_aggregate_id", eff.ID)
	if err != nil {
		return errors.Wrap(err, "dcim: look up device by aggregate id")
	}
	if !found {
		return nil
	}

	deviceTypeKey := url.Values{"manufacturer": {manufacturer}, "model": {model}}
	deviceType, err := e.client.getOrCreateByFilters(ctx, "/api/dcim/device-types/", deviceTypeKey, map[string]any{
		"manufacturer": manufacturer,
		"model":        model,
		"slug":         model,
	})
	if err != nil {
		return errors.Wrap(err, "dcim: get-or-create device type")
	}

	_, err = e.client.update(ctx, "/api/dcim/devices/", idOf(device), map[string]any{
		"device_type": idOf(deviceType),
	})
	return errors.Wrap(err, "dcim: patch device with hardware details")
}

func (e *Executor) createPrefix(ctx context.Context, eff projection.Effect) error {
	prefix, _ := eff.Data["prefix"].(string)
	body := map[string]any{}
	for k, v := range eff.Data {
		body[k] = v
	}
	if site, _ := body["site"].(string); site == "" {
		body["site"] = e.defaultSite
	}

	_, err := e.client.getOrCreate(ctx, "/api/ipam/prefixes/", "prefix", prefix, body)
	return errors.Wrap(err, "dcim: get-or-create prefix")
}

func (e *Executor) createInterface(ctx context.Context, eff projection.Effect) error {
	deviceName, _ := eff.Data["device"].(string)
	device, found, err := e.client.findOneByFilter(ctx, "/api/dcim/devices/", "name", deviceName)
	if err != nil {
		return errors.Wrap(err, "dcim: look up interface's device")
	}
	if !found {
		return errors.Errorf("dcim: device %q does not exist, cannot attach interface", deviceName)
	}

	name, _ := eff.Data["name"].(string)
	body := map[string]any{}
	for k, v := range eff.Data {
		body[k] = v
	}
	body["device"] = idOf(device)

	query := url.Values{"device_id": {idOf(device)}, "name": {name}}
	_, err = e.client.getOrCreateByFilters(ctx, "/api/dcim/interfaces/", query, body)
	return errors.Wrap(err, "dcim: get-or-create interface")
}

func (e *Executor) createIPAddress(ctx context.Context, eff projection.Effect) error {
	address, _ := eff.Data["address"].(string)
	body := map[string]any{}
	for k, v := range eff.Data {
		body[k] = v
	}

	if ifaceName, ok := eff.Data["assigned_interface"].(string); ok && ifaceName != "" {
		delete(body, "assigned_interface")
		iface, found, err := e.client.findOneByFilter(ctx, "/api/dcim/interfaces/", "name", ifaceName)
		if err != nil {
			return errors.Wrap(err, "dcim: look up assigned interface")
		}
		if found {
			body["assigned_object_id"] = idOf(iface)
		}
	}

	_, err := e.client.getOrCreate(ctx, "/api/ipam/ip-addresses/", "address", address, body)
	return errors.Wrap(err, "dcim: get-or-create ip address")
}

var _ projection.Executor = (*Executor)(nil)
