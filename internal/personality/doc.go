// Package personality writes episode dialogue with the language model.
//
// One prompt is built per episode from the language pack (host personas,
// cultural context, style guidelines, regional analogies), a segment plan
// chosen by episode type and number, and optional research and reference
// material. The reply is parsed into speaker-tagged segments. Provider
// failures and unparseable replies degrade to a short fallback dialogue so
// callers always receive something to voice.
package personality
