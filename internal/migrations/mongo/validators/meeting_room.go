package validators

import "go.mongodb.org/mongo-driver/bson"

var MeetingRoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"capacity",
			"active",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"floor": bson.M{
				"bsonType": "string",
			},

			"building": bson.M{
				"bsonType": "string",
			},

			"equipment": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
