package provider

const dailyPayload = `{
  "Meta Data": {"1. Information": "Daily Time Series with Splits and Dividend Events", "2. Symbol": "IBM"},
  "Time Series (Daily)": {
    "2024-09-06": {"1. open": "215.0000", "4. close": "214.5000", "5. adjusted close": "214.5000", "6. volume": "3000000"},
    "2024-09-05": {"1. open": "212.0000", "4. close": "213.1000", "5. adjusted close": "213.1000", "6. volume": "2500000"},
    "2024-09-04": {"1. open": "210.0000", "4. close": "211.0000", "5. adjusted close": "211.0000", "6. volume": 2000000}
  }
}`

const plainDailyPayload = `{
  "Time Series (Daily)": {
    "2024-09-06": {"4. close": "10.0", "5. volume": "100"}
  }
}`

const notePayload = `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`

const errorPayload = `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`
