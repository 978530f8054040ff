// Package domain models glacier records from the World Glacier Monitoring
// Service (WGMS) Fluctuations of Glaciers (FoG) database.
//
// # Data Source
//
// The FoG database is distributed as a set of CSV sheets, one per attribute
// group. Two of them feed this service:
//
//	Sheet A  (general information): one row per glacier.
//	Sheet EE (mass balance):        one row per glacier per year, optionally
//	                                split into elevation bands.
//
// # WGMS Data Conventions
//
// Identifiers:
//
//	WGMS_ID is an integer in the source sheets. It is rendered as a five
//	character, zero-padded string: 4392 → "04392". IDs that do not fit in five
//	characters fail validation instead of being truncated.
//
// Political unit:
//
//	POLITICAL_UNIT is the two-letter ISO 3166 country code in capitals,
//	e.g. "AR" (Argentina), "NO" (Norway), "IS" (Iceland).
//
// Classification code:
//
//	Three single-digit columns describe the glacier morphology:
//	PRIM_CLASSIFIC (primary class), FORM and FRONTAL_CHARS. They are joined in
//	that order into a single integer, e.g. 6, 3, 8 → 638 (mountain glacier,
//	cirque, debris-covered tongue). Codes are matched against patterns in
//	their decimal string form, where "?" stands for any one digit.
//
// Mass balance:
//
//	WINTER_BALANCE is the partial (accumulation season) measurement and
//	ANNUAL_BALANCE the total, both in millimetres water equivalent. Either
//	cell may be empty. Rows are folded into each glacier's history in file
//	order, partial before total.
//
// # Ranking
//
// Glaciers are ranked by the last value of their mass-balance history.
// Glaciers without any history have nothing to rank and are left out of the
// result; see [GlacierCollection.SortByLatestMassBalance].
package domain
