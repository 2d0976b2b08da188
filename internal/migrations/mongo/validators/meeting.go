package validators

import "go.mongodb.org/mongo-driver/bson"

var MeetingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"host_id",
			"primary_principal_id",
			"start_time",
			"end_time",
			"status",
			"meeting_type",
			"purpose",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"host_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"primary_principal_id": bson.M{
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

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"scheduled",
					"active",
					"completed",
					"cancelled",
				},
			},

			"meeting_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"external",
					"internal",
				},
			},

			"meeting_room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"purpose": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"is_multi_day": bson.M{
				"bsonType": "bool",
			},

			"visit_start_date": bson.M{
				"bsonType": "date",
			},

			"visit_end_date": bson.M{
				"bsonType": "date",
			},

			"booked_by_secretary_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"participants": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"principal_id"},
					"properties": bson.M{
						"principal_id": bson.M{
							"bsonType":  "string",
							"minLength": 24,
							"maxLength": 24,
						},
						"is_primary": bson.M{
							"bsonType": "bool",
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"cancelled_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
