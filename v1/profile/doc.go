// Package profile persists connection profiles and per-collection
// embedding function overrides in a single local bbolt file.
//
// # Layout
//
// Two buckets hold JSON values: "profiles" keyed by profile id, and
// "overrides" keyed by "profileID/collection". The shared prefix ties a
// profile's overrides to it, so DeleteProfile drops both in one
// transaction.
//
// # Override lookups
//
// The store satisfies embedding.OverrideSource: OverrideFor answers the
// middle rung of embedding function precedence (request beats override
// beats server config). Lookup failures there are logged and treated as
// absent, because resolution must be able to fall through rather than
// fail on a local read problem.
package profile
