package llm

// TranscriptionPrompt asks the model for a diarized transcript with
// Agent:/Customer: labels, which the quality gate depends on.
const TranscriptionPrompt = `You are an expert audio diarization and transcription engine.

Produce a transcript of this call recording with accurate speaker separation.

RULES:
- The Agent is the caller pitching, questioning or handling objections; the Customer is the receiver. Lock onto each voice once identified.
- Transcribe English, Hindi and Hinglish exactly as spoken.
- Start a new line every time the speaker changes.
- Use ONLY the labels "Agent:" and "Customer:".

TRANSCRIPT START:
`

// ExtractionPrompt asks the model to score every evaluation variable as
// a pipe-delimited text table. The parser tolerates soft compliance.
const ExtractionPrompt = `You are a strict call quality evaluation engine.

Evaluate ALL variables listed below based ONLY on the transcript.

OUTPUT FORMAT (STRICT - TEXT ONLY):
Return a table using pipe (|) separators, one row per variable:
| Variable | Status | Evidence |

RULES:
- Every variable MUST appear exactly once, in the listed order.
- Status MUST be one of: Excellent | Moderate | Needs Improvement | Not Present
- Evidence is a short direct quote (max 10 words); NA when there is no clear evidence.
- Do NOT return JSON or markdown. Do NOT add explanations or extra columns.

VARIABLE LIST:
Agent Tone & Energy, Agent Confidence, Listening Quality, Customer Empathy,
Discovery & Understanding, Handling Customer Corrections, Objection Handling,
Pricing Objection Response, Handling Financial Constraints, Solution Orientation,
Conversation Control, Pacing of Call, Escalation Handling, Upsell / Add-on Handling,
Customer Trust Impact, Agent Mindset, Problem Ownership, Customer Alignment,
Objection Framing, Trust Signals, Cost Sensitivity, Decision Momentum,
Overall Call Outcome, Permission to Proceed, Mutual Agreement, Closing Confirmation,
Polite Conclusion, Intent to Re-engage, Agreement to Collaboration,
Direct Positive Feedback, Agreement on Fundamentals, Call-back Request,
Flexibility Acknowledgment, Confirmation of Interest, Openness to Expansion,
Direct Confirmation of Service Need, Future Openness, Future Outlook,
Clear Intent to Start, Strategic Thinking, Direct Request for Information,
High Performance Metric, Significant Catalog Size, Market Viability,
Manufacturer Status, Supply Capability, Niche Specialization, Export Status,
Location Advantage, Certification Status, Delivery Readiness, Price Competitiveness,
Stock Availability, Response Speed, Digital Presence, Payment Flexibility,
Brand Recognition, Volume Capacity, Quality Assurance, Customization Ability,
Lead Handling, Follow-up Discipline, Relationship Building, Growth Intent

TRANSCRIPT:
`
