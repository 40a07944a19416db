package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_reference",
			"service_type",
			"frequency",
			"scheduled_date",
			"scheduled_time",
			"contact_email",
			"status",
			"payment_status",
			"total_amount",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"booking_reference": bson.M{
				"bsonType":  "string",
				"minLength": 4,
				"maxLength": 32,
			},

			"service_type": bson.M{
				"enum": []string{
					"standard", "deep", "move-in-out", "airbnb",
					"office", "holiday", "carpet-cleaning",
				},
			},

			"frequency": bson.M{
				"enum": []string{"one-time", "weekly", "bi-weekly", "monthly"},
			},

			"scheduled_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"scheduled_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"bedrooms": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  20,
			},

			"bathrooms": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  20,
			},

			"contact_email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "in-progress", "completed", "cancelled"},
			},

			"payment_status": bson.M{
				"enum": []string{"pending", "completed", "failed"},
			},

			"subtotal": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"recurring_sequence": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
