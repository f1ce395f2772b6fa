// Package config describes a game on disk and turns it into core.Params.
//
// A system file is YAML or JSON, chosen by extension. It either lists the
// users explicitly or asks for them to be generated:
//
//	transmRate: 1.0e6
//	transmPower: 0.1
//	users:
//	  - {bn: 1.0e6, dn: 5.0e9, en: 0.01, c: 0.5}
//	  - {bn: 1.0e6, dn: 5.0e9, en: 0.01, c: 0.5, an: 0.2, kn: 1.2}
//
//	transmRate: 1.0e6
//	transmPower: 0.1
//	generate:
//	  case: hetero
//	  users: 25
//	  seed: 7
//	  cpar: 0.5
//
// Per-user weights an and kn are optional and fall back to 1.
//
// Generated users draw their job size, CPU speed, energy per cycle and data
// volume uniformly from fixed ranges. The price factor follows from them:
//
//	tn = dn / fn
//	en = gn * dn
//	c  = cpar * bn / dn * (1 - 1/(tn*en))
//
// In the homo case one draw is shared by every user. With a zero seed each
// user draws from its own named RngStream; a non-zero seed selects seeded PCG
// streams so the same file always yields the same users.
package config
