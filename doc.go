// Package orgb is a client SDK for the OpenRGB network protocol: the
// framed binary TCP protocol spoken by the OpenRGB daemon for controlling
// RGB peripherals (motherboards, keyboards, GPUs, LED strips, and the
// like).
//
// # Protocol Architecture
//
// The wire format is a flat 16-byte header (magic "ORGB", device index,
// message type, body size) followed by a type-specific body:
//
//   - All integers are little-endian.
//   - Strings are 16-bit length prefixed (length includes a trailing zero
//     terminator).
//   - Device inventory is described by nested Mode/Zone/LED records
//     returned in a single ReplyControllerData message.
//   - The same message code is shared between a request and its reply;
//     direction tells them apart.
//
// # Connection Flow
//
//  1. A TCP connection is opened to the daemon (default port 6742).
//  2. RequestProtocolVersion/ReplyProtocolVersion negotiate
//     min(client, server). A daemon that closes the connection instead of
//     replying is treated as a legacy daemon at version 0.
//  3. SetClientName is sent if a name was configured.
//  4. The client is ready for RequestControllerCount,
//     RequestControllerData, and the LED/mode/zone mutation commands.
//
// # Quick Start
//
//	ctx := context.Background()
//	client, err := orgb.Connect(ctx, "localhost", 6742, orgb.WithClientName("demo"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	n, err := client.RequestControllerCount(ctx)
//	dev, err := client.RequestControllerData(ctx, 0)
//	err = client.SetCustomMode(ctx, 0)
//	err = client.UpdateLEDs(ctx, 0, make([]orgb.Color, len(dev.Leds)))
//
// # Concurrency
//
// A Client is safe for concurrent use between one goroutine issuing
// requests and another draining PollNotifications, but the core does not
// serialize a caller's own request calls against each other — callers
// issuing overlapping requests must synchronize those calls themselves.
package orgb
