package validators

import "go.mongodb.org/mongo-driver/bson"

var OverrideRecordValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"new_meeting_id",
			"conflicting_meeting_id",
			"participant_user_id",
			"override_approved",
			"approved_by",
			"override_reason",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"new_meeting_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"conflicting_meeting_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"participant_user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"override_approved": bson.M{
				"bsonType": "bool",
			},

			"approved_by": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"override_reason": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
