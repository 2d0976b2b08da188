package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityBlockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"principal_id",
			"start_time",
			"end_time",
			"category",
			"created_by_id",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"principal_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"category": bson.M{
				"bsonType": "string",
				"enum": []string{
					"time_off",
					"busy",
					"meeting",
					"unavailable",
				},
			},

			"all_day": bson.M{
				"bsonType": "bool",
			},

			"reason": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"created_by_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
