// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, the record store, validation and the storage backends can all
// import types without depending on each other.
package types

// Car is a single car listing.
//
// Listings are kept as decoded JSON objects rather than a fixed struct.
// Updates are a shallow merge of whatever the client sends, and the
// stored document must round-trip exactly what was posted, so the
// record stays a map end to end:
//
//	{
//	  "id": "2f1c...",
//	  "make": "Honda", "model": "Civic", "price": 20000, "type": "sedan",
//	  "features":  { "airConditioning": false, ... },
//	  "pictures":  [],
//	  "publisher": { "firstName": "Ana", ... },
//	  "datePublished": "2026-10-18T09:30:00.123Z"
//	}
type Car map[string]any

// Collection is the full ordered list of listings. It is the unit the
// storage backends load and save.
type Collection []Car

// Field names the server owns. Clients never set these.
const (
	FieldID            = "id"
	FieldDatePublished = "datePublished"
)

// Top-level field names a client supplies on create.
const (
	FieldMake      = "make"
	FieldModel     = "model"
	FieldPrice     = "price"
	FieldType      = "type"
	FieldFeatures  = "features"
	FieldPictures  = "pictures"
	FieldPublisher = "publisher"
)

// CarFields is the exact top-level key set of a create payload.
var CarFields = []string{
	FieldMake,
	FieldModel,
	FieldPrice,
	FieldType,
	FieldFeatures,
	FieldPictures,
	FieldPublisher,
}

// FeatureFlags is the exact key set of the "features" object.
var FeatureFlags = []string{
	"airConditioning",
	"sunroof",
	"bluetooth",
	"navigation",
	"backupCamera",
	"heatedSeats",
	"leatherSeats",
	"cruiseControl",
	"keylessEntry",
	"remoteStart",
	"parkingSensors",
	"laneAssist",
	"blindSpotMonitor",
	"adaptiveCruiseControl",
	"appleCarPlay",
	"androidAuto",
	"alloyWheels",
	"thirdRowSeating",
	"towPackage",
	"premiumSound",
}

// PublisherFields is the exact key set of the "publisher" object.
var PublisherFields = []string{
	"firstName",
	"lastName",
	"displayName",
	"phone",
	"address",
	"profilePicture",
}

// ID returns the listing's id, or "" when it is missing or not a string.
func (c Car) ID() string {
	id, _ := c[FieldID].(string)
	return id
}

// Clone returns a shallow copy of the listing. Nested objects are shared,
// which is all a shallow merge needs.
func (c Car) Clone() Car {
	out := make(Car, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
