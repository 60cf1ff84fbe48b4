package orgb

import (
	"context"
	"fmt"
)

// ─── Inventory commands ─────────────────────────────────────────────────────

// RequestControllerCount asks the daemon how many RGB controllers it
// currently manages.
//
//	n, err := client.RequestControllerCount(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d controllers\n", n)
func (c *Client) RequestControllerCount(ctx context.Context) (uint32, error) {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	body, err := c.doRequest(ctx, 0, &RequestControllerCount{}, MsgRequestControllerCount)
	if err != nil {
		return 0, fmt.Errorf("request controller count: %w", err)
	}
	reply, ok := body.(*ReplyControllerCount)
	if !ok {
		return 0, fmt.Errorf("request controller count: %w", ErrMalformed)
	}
	return reply.Count, nil
}

// RequestControllerData fetches the full description of the controller at
// deviceIdx: its identity strings, modes, zones, LEDs, and current colors.
//
//	dev, err := client.RequestControllerData(ctx, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s has %d LEDs\n", dev.Name, len(dev.Leds))
func (c *Client) RequestControllerData(ctx context.Context, deviceIdx uint32) (*DeviceDescription, error) {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	req := &RequestControllerData{ProtocolVersion: ImplementedProtocolVersion}
	body, err := c.doRequest(ctx, deviceIdx, req, MsgRequestControllerData)
	if err != nil {
		return nil, fmt.Errorf("request controller data: %w", err)
	}
	reply, ok := body.(*ReplyControllerData)
	if !ok {
		return nil, fmt.Errorf("request controller data: %w", ErrMalformed)
	}
	return &reply.Device, nil
}

// ─── Mutation commands (no reply) ───────────────────────────────────────────

// ResizeZone asks the daemon to resize a resizable zone on deviceIdx to
// newSize LEDs. It has no reply; a subsequent RequestControllerData call
// is needed to observe the new layout.
func (c *Client) ResizeZone(ctx context.Context, deviceIdx, zoneIdx, newSize uint32) error {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	body := &ResizeZone{ZoneIdx: zoneIdx, NewSize: newSize}
	if err := c.sendOnly(ctx, deviceIdx, body); err != nil {
		return fmt.Errorf("resize zone: %w", err)
	}
	return nil
}

// UpdateLEDs replaces every LED color on deviceIdx in a single call. The
// device must be in its custom/direct mode (see SetCustomMode) for this
// to have a visible effect.
//
//	err := client.UpdateLEDs(ctx, 0, colors)
func (c *Client) UpdateLEDs(ctx context.Context, deviceIdx uint32, colors []Color) error {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	body := &UpdateLEDs{Colors: colors}
	if err := c.sendOnly(ctx, deviceIdx, body); err != nil {
		return fmt.Errorf("update leds: %w", err)
	}
	return nil
}

// UpdateZoneLEDs replaces every LED color within zoneIdx on deviceIdx.
func (c *Client) UpdateZoneLEDs(ctx context.Context, deviceIdx, zoneIdx uint32, colors []Color) error {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	body := &UpdateZoneLEDs{ZoneIdx: zoneIdx, Colors: colors}
	if err := c.sendOnly(ctx, deviceIdx, body); err != nil {
		return fmt.Errorf("update zone leds: %w", err)
	}
	return nil
}

// UpdateSingleLED sets the color of exactly one LED, ledIdx, on deviceIdx.
func (c *Client) UpdateSingleLED(ctx context.Context, deviceIdx, ledIdx uint32, color Color) error {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	body := &UpdateSingleLED{LedIdx: ledIdx, Color: color}
	if err := c.sendOnly(ctx, deviceIdx, body); err != nil {
		return fmt.Errorf("update single led: %w", err)
	}
	return nil
}

// SetCustomMode switches deviceIdx into its direct/custom mode, which is
// the precondition for UpdateLEDs, UpdateZoneLEDs, and UpdateSingleLED to
// take visible effect.
func (c *Client) SetCustomMode(ctx context.Context, deviceIdx uint32) error {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	if err := c.sendOnly(ctx, deviceIdx, &SetCustomMode{}); err != nil {
		return fmt.Errorf("set custom mode: %w", err)
	}
	return nil
}

// UpdateMode pushes a modified ModeDescription for modeIdx back to
// deviceIdx. The upstream protocol does not document whether this also
// changes the device's active mode; this method exposes the operation
// exactly as the wire format defines it and makes no such assumption on
// the caller's behalf.
func (c *Client) UpdateMode(ctx context.Context, deviceIdx, modeIdx uint32, mode ModeDescription) error {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	body := &UpdateMode{ModeIdx: modeIdx, Mode: mode}
	if err := c.sendOnly(ctx, deviceIdx, body); err != nil {
		return fmt.Errorf("update mode: %w", err)
	}
	return nil
}

// withDefaultTimeout returns ctx unchanged if it already carries a
// deadline, or a child context bounded by the client's configured request
// timeout otherwise.
func (c *Client) withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.opts.requestTimeout)
}
