// Package dispatch routes queued dish orders to kitchen stations.
//
// The Engine walks the station registry in priority order for each order.
// PrepareNext handles only the head of the queue and never touches the
// backup stock. ProcessAll drains the whole queue: when a station that
// knows the dish runs short, the first missing ingredient is pulled from the
// backup stock and preparation is retried once at that station. Orders that
// no station could prepare go back to the queue in their original order.
//
// Every step of ProcessAll is reported as an events.TraceEvent to the
// configured Tracer, in dish order then station order.
package dispatch
