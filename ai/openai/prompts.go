package openai

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "voltage": { "type": "string" },
    "conductor_material": { "type": "string" },
    "cross_section": { "type": "string" },
    "core_count": { "type": "string" },
    "insulation": { "type": "string" },
    "armouring": { "type": "string" },
    "sheathing": { "type": "string" }
  },
  "additionalProperties": false
}`

const extractionPrompt = `Extract the technical attributes of the cable or wire described by the given specification text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

` + extractionResponseSchema + `

Rules:
- Copy attribute values as they appear in the text; do not convert units or expand abbreviations.
- voltage is the rated voltage, e.g. "11kV" or "1100V".
- conductor_material is the conductor metal, e.g. "Aluminum", "Al", "Copper", "Cu".
- cross_section is the conductor area, e.g. "300 sq.mm" or "240mm2".
- core_count is the number of cores, e.g. "3 Core" or "4C".
- insulation is the insulation system, e.g. "XLPE", "PVC", "EPR".
- armouring is the armour construction, e.g. "GI Strip", "SWA", "Unarmoured".
- sheathing is the outer sheath material, e.g. "PVC", "PE", "LSZH".
- Omit any attribute the text does not mention. Do not guess or infer missing values.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example input:
11kV, 3 Core, 300 sq.mm, Aluminum Conductor, XLPE Insulated, GI Strip Armoured, PVC Sheathed Power Cable

Example output:
{"voltage": "11kV", "conductor_material": "Aluminum", "cross_section": "300 sq.mm", "core_count": "3 Core", "insulation": "XLPE", "armouring": "GI Strip", "sheathing": "PVC"}`
