package lingq

import (
	"encoding/json"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
)

// The API has no published schema, so responses are checked against these
// hand-written ones before they are decoded. Only the fields this package
// relies on are listed; anything else LingQ sends is allowed through.

type shape = openapi3.Schema

func object(required, optional map[string]*shape) *shape {
	s := openapi3.NewObjectSchema()
	for name, prop := range required {
		s.WithProperty(name, prop)
		s.Required = append(s.Required, name)
	}
	for name, prop := range optional {
		s.WithProperty(name, prop)
	}

	return s
}

func arrayOf(items *shape) *shape {
	return openapi3.NewArraySchema().WithItems(items)
}

func mapOf(values *shape) *shape {
	return openapi3.NewObjectSchema().WithAdditionalProperties(values)
}

var (
	translationShape = object(nil, map[string]*shape{
		"language": openapi3.NewStringSchema(),
		"text":     openapi3.NewStringSchema(),
		"type":     openapi3.NewStringSchema(),
	})

	timestampShape = arrayOf(openapi3.NewFloat64Schema().WithNullable()).
			WithMinItems(2).
			WithMaxItems(2).
			WithNullable()

	sentenceShape = object(
		map[string]*shape{
			"index": openapi3.NewIntegerSchema(),
			"text":  openapi3.NewStringSchema(),
		},
		map[string]*shape{
			"cleanText":    openapi3.NewStringSchema(),
			"translations": arrayOf(translationShape).WithNullable(),
			"timestamp":    timestampShape,
		},
	)

	paragraphShape = object(
		map[string]*shape{
			"sentences": arrayOf(sentenceShape),
		},
		map[string]*shape{
			"index": openapi3.NewIntegerSchema(),
			"style": openapi3.NewStringSchema(),
		},
	)

	lessonShape = object(
		map[string]*shape{
			"id":         openapi3.NewIntegerSchema(),
			"title":      openapi3.NewStringSchema(),
			"paragraphs": arrayOf(paragraphShape),
		},
		map[string]*shape{
			"status":   openapi3.NewStringSchema(),
			"language": openapi3.NewStringSchema(),
			"collection": object(
				map[string]*shape{"id": openapi3.NewIntegerSchema()},
				map[string]*shape{"title": openapi3.NewStringSchema()},
			).WithNullable(),
		},
	)

	lessonCreatedShape = object(
		map[string]*shape{
			"id": openapi3.NewIntegerSchema(),
		},
		map[string]*shape{
			"title":      openapi3.NewStringSchema(),
			"url":        openapi3.NewStringSchema(),
			"collection": openapi3.NewIntegerSchema().WithNullable(),
		},
	)

	lessonStatsShape = object(map[string]*shape{
		"listenTimes":  openapi3.NewFloat64Schema(),
		"readTimes":    openapi3.NewFloat64Schema(),
		"cardsCreated": openapi3.NewIntegerSchema(),
	}, nil)

	hintShape = object(
		map[string]*shape{"text": openapi3.NewStringSchema()},
		map[string]*shape{
			"id":     openapi3.NewIntegerSchema(),
			"locale": openapi3.NewStringSchema(),
		},
	)

	cardShape = object(
		map[string]*shape{
			"pk":     openapi3.NewIntegerSchema(),
			"term":   openapi3.NewStringSchema(),
			"status": openapi3.NewIntegerSchema(),
		},
		map[string]*shape{
			"fragment":       openapi3.NewStringSchema(),
			"extendedStatus": openapi3.NewIntegerSchema().WithNullable(),
			"hints":          arrayOf(hintShape).WithNullable(),
		},
	)

	wordShape = object(
		map[string]*shape{
			"text":   openapi3.NewStringSchema(),
			"status": openapi3.NewStringSchema(),
		},
		map[string]*shape{
			"importance": openapi3.NewIntegerSchema(),
			"hints":      arrayOf(hintShape).WithNullable(),
		},
	)

	lessonWordsShape = object(map[string]*shape{
		"cards": mapOf(cardShape),
		"words": mapOf(wordShape),
	}, nil)

	ttsShape = object(
		map[string]*shape{
			"id":    openapi3.NewIntegerSchema(),
			"voice": openapi3.NewStringSchema(),
			"text":  openapi3.NewStringSchema(),
			"audio": openapi3.NewStringSchema(),
		},
		map[string]*shape{
			"timestamps": arrayOf(timestampShape).WithNullable(),
		},
	)
)

// decode validates body against schema and unmarshals it into result. A nil
// schema only requires the body to be JSON; a nil result skips the unmarshal.
func decode(operation string, schema *shape, body []byte, result interface{}) error {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return &ShapeError{Operation: operation, Err: errors.Wrap(err, "decoding JSON")}
	}

	if schema != nil {
		if err := schema.VisitJSON(raw); err != nil {
			return &ShapeError{Operation: operation, Err: schemaProblem(err)}
		}
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &ShapeError{Operation: operation, Err: errors.Wrap(err, "deserializing response")}
	}

	return nil
}

// schemaProblem cuts a validation error down to its reason and where in the
// body it happened. kin-openapi's own message dumps the schema and the value.
func schemaProblem(err error) error {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return errors.Errorf("%s at /%s", schemaErr.Reason, strings.Join(schemaErr.JSONPointer(), "/"))
	}

	return errors.New(strings.SplitN(err.Error(), "\n", 2)[0])
}
