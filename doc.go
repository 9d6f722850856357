// Package giftgate implements a two-party authorization gate for privileged
// grant commands in a chat interface. A privileged originator proposes an
// action (granting packs or points, inspecting the gifted ledger); an
// independently-authorized approver must ratify it before the execution
// dispatcher applies it - exactly once - to the external ledger store.
//
// The package is designed to be embedded in a host chat bot. The host adapts
// its transport to the transport.Conn, auth.RoleChecker, identity.Resolver
// and ledger.Service interfaces and feeds inbound events into the engine:
//
//	svc := giftgate.New(
//		giftgate.WithConn(conn),
//		giftgate.WithRoleChecker(roles),
//		giftgate.WithLedger(store),
//		giftgate.WithResolver(resolver),
//	)
//	_ = svc.HandleRequest(ctx, request)   // slash command arrived
//	_ = svc.HandleDecision(ctx, decision) // approve/reject button pressed
//
// For more details see the individual sub-packages.
package giftgate
