// Package live fans mutation events out to every connected WebSocket client.
//
// A Hub is created once at startup and shared by every handler that
// mutates records. Delivery is best effort: each client has a bounded
// send buffer, and a client whose buffer is full or whose connection has
// failed simply misses the message. Broadcast never removes clients;
// clients leave only when their own read loop sees the connection close.
//
// Clients are receive-only. Frames they send are read to detect
// disconnection and otherwise discarded.
package live
