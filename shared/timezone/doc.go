// Package timezone pins every wall-clock decision to one configured location (APP_TIMEZONE,
// IANA name, UTC when unset or unknown).
//
// Campaign target dates, the "is this campaign in the past" sweep and the week numbers the
// fairness score is built from all read the clock through Now and StartOfDay, so a host
// answering late on Saturday evening lands in the same week everywhere.
package timezone
