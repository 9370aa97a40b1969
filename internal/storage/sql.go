package storage

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS recordings
(
    id          TEXT PRIMARY KEY,
    filename    TEXT     NOT NULL,
    subject_id  TEXT     NOT NULL DEFAULT '',
    backend     TEXT     NOT NULL,
    simulated   INTEGER  NOT NULL DEFAULT 0,
    sample_rate REAL     NOT NULL,
    duration    REAL     NOT NULL,
    channels    INTEGER  NOT NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    data        BLOB     NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses
(
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    recording_id TEXT     NOT NULL REFERENCES recordings (id) ON DELETE CASCADE,
    kind         TEXT     NOT NULL,
    success      INTEGER  NOT NULL,
    error        TEXT,
    parameters   TEXT,
    result       TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_analyses_recording ON analyses (recording_id, created_at);
`

const insertRecordingSQL = `
INSERT INTO recordings (id, filename, subject_id, backend, simulated, sample_rate, duration, channels, created_at, data)
VALUES (:id, :filename, :subject_id, :backend, :simulated, :sample_rate, :duration, :channels, :created_at, :data)`

const selectRecordingSQL = `
SELECT id,
       filename,
       subject_id,
       backend,
       simulated,
       sample_rate,
       duration,
       channels,
       created_at,
       data
FROM recordings
WHERE id = ?`

const selectRecordingsSQL = `
SELECT id,
       filename,
       subject_id,
       backend,
       simulated,
       sample_rate,
       duration,
       channels,
       created_at
FROM recordings
ORDER BY created_at`

const deleteRecordingSQL = `DELETE FROM recordings WHERE id = ?`

const deleteAnalysesSQL = `DELETE FROM analyses WHERE recording_id = ?`

const insertAnalysisSQL = `
INSERT INTO analyses (recording_id, kind, success, error, parameters, result, created_at)
VALUES (:recording_id, :kind, :success, :error, :parameters, :result, :created_at)`

const selectAnalysesSQL = `
SELECT id,
       recording_id,
       kind,
       success,
       error,
       parameters,
       result,
       created_at
FROM analyses
WHERE recording_id = ?
ORDER BY created_at, id`
