// Package payments implements the payment workflow: intent creation against
// Stripe and the recording of completed transactions.
//
// # Intent Creation
//
// IntentCreator converts a decimal price to integer minor units (rounded
// exactly once, see MinorUnits) and creates a card-only, USD payment intent.
// The returned client secret is handed to the storefront, which completes the
// charge out-of-band. Processor rejections surface as *ProcessorError so
// handlers can distinguish them from internal faults.
//
// # Recording
//
// Recorder performs the two-step write for a completed payment:
//
//  1. append the Payment document to the ledger
//  2. bulk-delete the cart entries listed in cartItems
//
// The steps are deliberately not wrapped in a multi-document transaction (the
// store may be a standalone deployment). Instead the operation is made safely
// re-runnable: the processor transaction id acts as an idempotency key
// guarding the insert, and the delete is a no-op for entries already gone.
// A delete count short of the requested count is the signal that stale cart
// entries remain; the Recorder logs it and reports both counts in the Receipt.
package payments
